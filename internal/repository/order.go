package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/dokanhq/dokan/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const pgErrUniqueViolationCode = "23505"

const orderColumns = `id, number, customer_id, customer_name, customer_email, customer_phone,
						delivery_address, subtotal, tax, shipping, total, currency,
						status, payment_status, payment_method, version,
						address_confirmed_at, address_confirmed_by,
						order_confirmed_at, order_confirmed_by,
						packed_at, packed_by,
						dispatched_at, assigned_deliveryman,
						cash_collected_at,
						delivered_at, delivered_by,
						cancelled_at, cancelled_by,
						payment_received_at, payment_received_by,
						payment_completed_at, completed_at, created_at`

const (
	insertOrderQuery = `
						INSERT INTO orders (id, number, customer_id, customer_name, customer_email, customer_phone,
							delivery_address, subtotal, tax, shipping, total, currency,
							status, payment_status, payment_method, version, created_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id
`
	selectOrderByNumberQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE number = $1
`
	selectOrdersByCustomerIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE customer_id = $1
						ORDER BY created_at DESC
`
	selectOrdersPageQuery = `
						SELECT ` + orderColumns + ` FROM orders
						ORDER BY created_at DESC
						LIMIT $1 OFFSET $2
`
	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, name, unit_price, quantity FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	selectOrderHistoryQuery = `
						SELECT id, order_id, status, changed_by, changed_by_role, changed_at, notes
						FROM order_status_history
						WHERE order_id = $1
						ORDER BY changed_at, id
`
	updateTransitionQuery = `
						UPDATE orders
						SET status = $1, payment_status = $2, version = version + 1,
							address_confirmed_at = $3, address_confirmed_by = $4,
							order_confirmed_at = $5, order_confirmed_by = $6,
							packed_at = $7, packed_by = $8,
							dispatched_at = $9, assigned_deliveryman = $10,
							cash_collected_at = $11,
							delivered_at = $12, delivered_by = $13,
							cancelled_at = $14, cancelled_by = $15,
							payment_received_at = $16, payment_received_by = $17,
							completed_at = $18
						WHERE id = $19 AND version = $20
`
	insertHistoryQuery = `
						INSERT INTO order_status_history (order_id, status, changed_by, changed_by_role, changed_at, notes)
						VALUES ($1, $2, $3, $4, $5, $6)
`
	selectOrderVersionQuery = `
						SELECT version FROM orders
						WHERE id = $1
`
	updatePaymentCompletedQuery = `
						UPDATE orders
						SET payment_status = $1, payment_completed_at = $2, version = version + 1
						WHERE number = $3 AND payment_completed_at IS NULL
`
	countOrdersByStatusQuery = `
						SELECT status, count(*) FROM orders
						GROUP BY status
`
	selectUnreconciledCashQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE payment_method = 'cash_on_delivery'
							AND cash_collected_at IS NOT NULL
							AND payment_received_at IS NULL
							AND status IN ('delivered', 'completed')
						ORDER BY cash_collected_at
`
)

// OrderRepository implements service.OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order, its items and the initial history entry
// in one transaction.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertOrderQuery,
		order.ID, order.Number, order.CustomerID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.DeliveryAddress, order.Subtotal, order.Tax, order.Shipping, order.Total, order.Currency,
		order.Status, order.PaymentStatus, order.PaymentMethod, order.Version, order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	change := models.StatusChange{
		OrderID:   order.ID,
		Status:    order.Status,
		ChangedBy: order.CustomerEmail,
		ChangedAt: order.CreatedAt,
	}
	_, err = tx.Exec(ctx, insertHistoryQuery,
		change.OrderID, change.Status, change.ChangedBy, change.ChangedByRole, change.ChangedAt, change.Notes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.StatusHistory = append(order.StatusHistory, change)

	return order, nil
}

// GetOrderByNumber returns order by number with items and history.
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectOrderByNumberQuery, number), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if err := or.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	if err := or.loadHistory(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrdersByCustomerID gets customer orders
func (or *OrderRepository) GetOrdersByCustomerID(ctx context.Context, customerID uint64) ([]models.Order, error) {
	return or.selectOrders(ctx, selectOrdersByCustomerIDQuery, customerID)
}

// ListOrders returns a page of orders, newest first
func (or *OrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	return or.selectOrders(ctx, selectOrdersPageQuery, limit, offset)
}

// ApplyTransition writes the order's workflow fields and appends the
// history entry atomically. The update is guarded by the order version:
// zero rows affected means either a concurrent modification or a missing
// order, distinguished by a follow-up probe.
func (or *OrderRepository) ApplyTransition(ctx context.Context, order *models.Order, change models.StatusChange) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, updateTransitionQuery,
		order.Status, order.PaymentStatus,
		order.AddressConfirmedAt, order.AddressConfirmedBy,
		order.OrderConfirmedAt, order.OrderConfirmedBy,
		order.PackedAt, order.PackedBy,
		order.DispatchedAt, order.AssignedDeliveryman,
		order.CashCollectedAt,
		order.DeliveredAt, order.DeliveredBy,
		order.CancelledAt, order.CancelledBy,
		order.PaymentReceivedAt, order.PaymentReceivedBy,
		order.CompletedAt,
		order.ID, order.Version)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		var version uint64
		err := or.db.QueryRow(ctx, selectOrderVersionQuery, order.ID).Scan(&version)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrDataNotFound
		}
		if err != nil {
			return err
		}
		return models.ErrStaleOrder
	}

	_, err = tx.Exec(ctx, insertHistoryQuery,
		change.OrderID, change.Status, change.ChangedBy, change.ChangedByRole, change.ChangedAt, change.Notes)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	order.Version++

	return nil
}

// SetPaymentCompleted marks an online payment as received
func (or *OrderRepository) SetPaymentCompleted(ctx context.Context, number string, at time.Time) error {
	cmd, err := or.db.Exec(ctx, updatePaymentCompletedQuery, models.PaymentStatusPaid, at, number)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// CountOrdersByStatus returns order counts grouped by status
func (or *OrderRepository) CountOrdersByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	rows, err := or.db.Query(ctx, countOrdersByStatusQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.OrderStatus]int64{}

	for rows.Next() {
		var status models.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// ListUnreconciledCashOrders returns delivered COD orders whose collected
// cash has not been confirmed by accounts
func (or *OrderRepository) ListUnreconciledCashOrders(ctx context.Context) ([]models.Order, error) {
	return or.selectOrders(ctx, selectUnreconciledCashQuery)
}

func (or *OrderRepository) selectOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (or *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

func (or *OrderRepository) loadHistory(ctx context.Context, order *models.Order) error {
	rows, err := or.db.Query(ctx, selectOrderHistoryQuery, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		change := models.StatusChange{}
		err = rows.Scan(&change.ID, &change.OrderID, &change.Status, &change.ChangedBy, &change.ChangedByRole, &change.ChangedAt, &change.Notes)
		if err != nil {
			return err
		}
		order.StatusHistory = append(order.StatusHistory, change)
	}

	return rows.Err()
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(
		&order.ID, &order.Number, &order.CustomerID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.DeliveryAddress, &order.Subtotal, &order.Tax, &order.Shipping, &order.Total, &order.Currency,
		&order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.Version,
		&order.AddressConfirmedAt, &order.AddressConfirmedBy,
		&order.OrderConfirmedAt, &order.OrderConfirmedBy,
		&order.PackedAt, &order.PackedBy,
		&order.DispatchedAt, &order.AssignedDeliveryman,
		&order.CashCollectedAt,
		&order.DeliveredAt, &order.DeliveredBy,
		&order.CancelledAt, &order.CancelledBy,
		&order.PaymentReceivedAt, &order.PaymentReceivedBy,
		&order.PaymentCompletedAt, &order.CompletedAt, &order.CreatedAt)
}
