package models

import "time"

// OrderStatus is the workflow state of an order. Orders move forward
// one step at a time through the fulfillment pipeline; cancelled is an
// absorbing short-circuit reachable from any non-terminal state.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusAddressConfirmed OrderStatus = "address_confirmed"
	OrderStatusOrderConfirmed   OrderStatus = "order_confirmed"
	OrderStatusPacked           OrderStatus = "packed"
	OrderStatusOutForDelivery   OrderStatus = "out_for_delivery"
	OrderStatusCashCollected    OrderStatus = "cash_collected"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusCancelled        OrderStatus = "cancelled"
	OrderStatusRescheduled      OrderStatus = "rescheduled"
	OrderStatusFailedDelivery   OrderStatus = "failed_delivery"
)

// payment status
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// payment method
const (
	PaymentMethodCOD    = "cash_on_delivery"
	PaymentMethodCard   = "card"
	PaymentMethodWallet = "wallet"
)

// Order is the central order entity. Commercial fields are immutable
// snapshots taken at checkout; workflow and tracking fields are mutated
// only through the transition engine. Version backs optimistic locking:
// a transition applied against a stale version is rejected.
type Order struct {
	ID              string
	Number          string
	CustomerID      uint64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string

	Items    []OrderItem
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
	Currency string

	Status        OrderStatus
	PaymentStatus string
	PaymentMethod string
	Version       uint64

	AddressConfirmedAt  *time.Time
	AddressConfirmedBy  string
	OrderConfirmedAt    *time.Time
	OrderConfirmedBy    string
	PackedAt            *time.Time
	PackedBy            string
	DispatchedAt        *time.Time
	AssignedDeliveryman string
	CashCollectedAt     *time.Time
	DeliveredAt         *time.Time
	DeliveredBy         string
	CancelledAt         *time.Time
	CancelledBy         string
	PaymentReceivedAt   *time.Time
	PaymentReceivedBy   string
	PaymentCompletedAt  *time.Time
	CompletedAt         *time.Time

	StatusHistory []StatusChange
	CreatedAt     time.Time
}

// OrderItem is a line item with the unit price snapshotted at order time.
type OrderItem struct {
	ID        uint64
	OrderID   string
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}

// StatusChange is one append-only audit record of a workflow transition.
type StatusChange struct {
	ID            uint64
	OrderID       string
	Status        OrderStatus
	ChangedBy     string
	ChangedByRole EmployeeRole
	ChangedAt     time.Time
	Notes         string
}

// Terminal reports whether no further workflow transitions are accepted
// from s. Delivered is not terminal: complete and receive_payment still
// apply to a delivered order.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
