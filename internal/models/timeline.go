package models

import "time"

// StepState is the derived display state of one timeline step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// timeline step keys
const (
	StepKeyPlaced         = "order_placed"
	StepKeyAddressConfirm = "address_confirmation"
	StepKeyOrderConfirm   = "order_confirmation"
	StepKeyPacking        = "packing"
	StepKeyOutForDelivery = "out_for_delivery"
	StepKeyCashCollection = "payment_collection"
	StepKeyOnlinePayment  = "payment_received"
	StepKeyDelivered      = "delivered"
	StepKeyCancelled      = "order_cancelled"
)

// TimelineStep is one entry of the read-only order progress projection.
type TimelineStep struct {
	Key   string
	Label string
	State StepState
	At    *time.Time
	By    string
}
