package notifier

import (
	"context"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Message is the customer-facing text for one order status.
type Message struct {
	Title    string
	Message  string
	Priority string
}

// statusMessages maps every order status to its notification text.
var statusMessages = map[models.OrderStatus]Message{
	models.OrderStatusPending: {
		Title:    "Order placed",
		Message:  "We have received your order and will confirm it shortly.",
		Priority: models.NotificationPriorityNormal,
	},
	models.OrderStatusAddressConfirmed: {
		Title:    "Address confirmed",
		Message:  "Your delivery address has been confirmed.",
		Priority: models.NotificationPriorityLow,
	},
	models.OrderStatusOrderConfirmed: {
		Title:    "Order confirmed",
		Message:  "Your order has been confirmed and is being prepared.",
		Priority: models.NotificationPriorityNormal,
	},
	models.OrderStatusPacked: {
		Title:    "Order packed",
		Message:  "Your order has been packed and is awaiting dispatch.",
		Priority: models.NotificationPriorityLow,
	},
	models.OrderStatusOutForDelivery: {
		Title:    "Out for delivery",
		Message:  "Your order is on its way.",
		Priority: models.NotificationPriorityHigh,
	},
	models.OrderStatusCashCollected: {
		Title:    "Payment collected",
		Message:  "Payment for your order has been collected.",
		Priority: models.NotificationPriorityNormal,
	},
	models.OrderStatusDelivered: {
		Title:    "Order delivered",
		Message:  "Your order has been delivered. Thank you for shopping with us.",
		Priority: models.NotificationPriorityHigh,
	},
	models.OrderStatusCompleted: {
		Title:    "Order completed",
		Message:  "Your order is complete.",
		Priority: models.NotificationPriorityLow,
	},
	models.OrderStatusCancelled: {
		Title:    "Order cancelled",
		Message:  "Your order has been cancelled.",
		Priority: models.NotificationPriorityHigh,
	},
	models.OrderStatusRescheduled: {
		Title:    "Delivery rescheduled",
		Message:  "Delivery of your order has been rescheduled.",
		Priority: models.NotificationPriorityNormal,
	},
	models.OrderStatusFailedDelivery: {
		Title:    "Delivery attempt failed",
		Message:  "We could not deliver your order. We will try again soon.",
		Priority: models.NotificationPriorityHigh,
	},
}

// MessageFor returns the notification text for status.
func MessageFor(status models.OrderStatus) (Message, bool) {
	msg, ok := statusMessages[status]
	return msg, ok
}

// Sender delivers one notification to the customer.
type Sender interface {
	Send(ctx context.Context, notification models.Notification) error
}

// Notifier is the fire-and-forget notification dispatcher. Notify enqueues
// without blocking; a background goroutine delivers with bounded retries.
// Notifications are not guaranteed-delivery: a full queue or an exhausted
// retry budget drops the message with a logged failure.
type Notifier struct {
	queue  chan models.Notification
	sender Sender
	logger *zap.Logger
}

// New creates new Notifier instance
func New(sender Sender, logger *zap.Logger, queueSize int) *Notifier {
	return &Notifier{
		queue:  make(chan models.Notification, queueSize),
		sender: sender,
		logger: logger,
	}
}

// Notify enqueues a status notification for the order's customer. It never
// blocks and never returns an error to the caller.
func (n *Notifier) Notify(order *models.Order, status models.OrderStatus) {
	msg, ok := statusMessages[status]
	if !ok {
		n.logger.Warn("no notification message for status", zap.String("status", string(status)))
		return
	}

	notification := models.Notification{
		ID:          uuid.NewString(),
		CustomerID:  order.CustomerID,
		OrderNumber: order.Number,
		Status:      status,
		Title:       msg.Title,
		Message:     msg.Message,
		Priority:    msg.Priority,
		CreatedAt:   time.Now(),
	}

	select {
	case n.queue <- notification:
	default:
		n.logger.Warn("notification queue full, dropping",
			zap.String("number", order.Number),
			zap.String("status", string(status)))
	}
}

// Run consumes the queue until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.logger.Debug("notifier is done")
			return
		case notification := <-n.queue:
			n.deliver(ctx, notification)
		}
	}
}

// deliver attempts delivery with bounded retries, then drops.
func (n *Notifier) deliver(ctx context.Context, notification models.Notification) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = n.sender.Send(ctx, notification); err == nil {
			return
		}

		n.logger.Debug("notification delivery failed",
			zap.String("number", notification.OrderNumber),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}

	n.logger.Error("dropping notification after retries",
		zap.String("number", notification.OrderNumber),
		zap.String("status", string(notification.Status)),
		zap.Error(err))
}
