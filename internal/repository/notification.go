package repository

import (
	"context"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/dokanhq/dokan/internal/repository/postgres"
)

const insertNotificationQuery = `
						INSERT INTO notifications (id, customer_id, order_number, status, title, message, priority, created_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// NotificationRepository stores customer notifications. It is the sender
// behind the notification dispatcher.
type NotificationRepository struct {
	db *postgres.DB
}

// NewNotificationRepository creates new NotificationRepository instance
func NewNotificationRepository(db *postgres.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Send inserts the notification row for the owning customer.
func (nr *NotificationRepository) Send(ctx context.Context, n models.Notification) error {
	_, err := nr.db.Exec(ctx, insertNotificationQuery,
		n.ID, n.CustomerID, n.OrderNumber, n.Status, n.Title, n.Message, n.Priority, n.CreatedAt)
	return err
}
