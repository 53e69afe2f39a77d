package models

import "time"

// notification priority
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification is a customer-facing message produced when an order
// changes status. Delivery is best-effort and never blocks a transition.
type Notification struct {
	ID          string
	CustomerID  uint64
	OrderNumber string
	Status      OrderStatus
	Title       string
	Message     string
	Priority    string
	CreatedAt   time.Time
}
