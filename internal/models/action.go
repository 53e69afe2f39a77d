package models

// Action is a requested workflow transition on an order.
type Action string

const (
	ActionConfirmAddress Action = "confirm_address"
	ActionConfirmOrder   Action = "confirm_order"
	ActionPackOrder      Action = "pack_order"
	ActionAssignDelivery Action = "assign_delivery"
	ActionCollectCash    Action = "collect_cash"
	ActionDeliver        Action = "deliver"
	ActionComplete       Action = "complete"
	ActionReschedule     Action = "reschedule"
	ActionFailDelivery   Action = "fail_delivery"
	ActionCancel         Action = "cancel"
	// ActionReceivePayment is the accounts-side cash reconciliation. It
	// marks the money sub-workflow complete and never changes order status.
	ActionReceivePayment Action = "receive_payment"
)

// TransitionPayload carries optional per-action input.
type TransitionPayload struct {
	// Notes is recorded verbatim in the status history entry.
	Notes string
	// DeliverymanName is the assignee for assign_delivery. When empty the
	// acting employee's own name is used.
	DeliverymanName string
}
