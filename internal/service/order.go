package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts a new order with its items and initial history entry
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByNumber returns order by number with items and history
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	// GetOrdersByCustomerID gets customer orders
	GetOrdersByCustomerID(ctx context.Context, customerID uint64) ([]models.Order, error)
	// ListOrders returns a page of orders, newest first
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error)
	// ApplyTransition atomically writes the order's workflow fields and
	// appends the history entry, guarded by the order version
	ApplyTransition(ctx context.Context, order *models.Order, change models.StatusChange) error
	// SetPaymentCompleted marks an online payment as received
	SetPaymentCompleted(ctx context.Context, number string, at time.Time) error
	// CountOrdersByStatus returns order counts grouped by status
	CountOrdersByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	// ListUnreconciledCashOrders returns delivered COD orders whose
	// collected cash has not been confirmed by accounts
	ListUnreconciledCashOrders(ctx context.Context) ([]models.Order, error)
}

// CounterRepository increments employee performance counters.
type CounterRepository interface {
	IncrementCounter(ctx context.Context, employeeID uint64, kind models.CounterKind) error
}

// Notifier enqueues a customer notification for a status change. The call
// must not block and must not fail the transition.
type Notifier interface {
	Notify(order *models.Order, status models.OrderStatus)
}

// OrderService owns order intake and is the single authority that mutates
// order workflow state.
type OrderService struct {
	repo     OrderRepository
	counters CounterRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, counters CounterRepository, notifier Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		counters: counters,
		notifier: notifier,
		logger:   logger,
	}
}

// Create registers a checkout order in pending status. Totals are computed
// server-side from the item price snapshots.
func (os *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, models.ErrInvalidOrderData
	}
	switch order.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodCard, models.PaymentMethodWallet:
	default:
		return nil, models.ErrInvalidOrderData
	}

	now := time.Now()
	order.ID = uuid.NewString()
	order.Number = newOrderNumber(now)
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusPending
	order.CreatedAt = now
	order.Version = 1

	var subtotal float64
	for _, item := range order.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	order.Subtotal = subtotal
	order.Total = subtotal + order.Tax + order.Shipping

	created, err := os.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	os.notifier.Notify(created, models.OrderStatusPending)

	return created, nil
}

// GetByNumber returns one order with items and history.
func (os *OrderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	return os.repo.GetOrderByNumber(ctx, number)
}

// ListByCustomer returns the customer's orders.
func (os *OrderService) ListByCustomer(ctx context.Context, customerID uint64) ([]models.Order, error) {
	return os.repo.GetOrdersByCustomerID(ctx, customerID)
}

// List returns a page of all orders for the admin console.
func (os *OrderService) List(ctx context.Context, actor *models.Employee, limit, offset int) ([]models.Order, error) {
	if !models.CanPerform(actor, models.PermViewAnalytics) {
		return nil, models.ErrUnauthorized
	}
	return os.repo.ListOrders(ctx, limit, offset)
}

// Summary returns order counts by status for the admin dashboard.
func (os *OrderService) Summary(ctx context.Context, actor *models.Employee) (map[models.OrderStatus]int64, error) {
	if !models.CanPerform(actor, models.PermViewAnalytics) {
		return nil, models.ErrUnauthorized
	}
	return os.repo.CountOrdersByStatus(ctx)
}

// Timeline returns the derived progress projection for one order.
func (os *OrderService) Timeline(ctx context.Context, number string) ([]models.TimelineStep, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return DeriveTimeline(order), nil
}

// ApplyTransition validates and applies a requested workflow action on the
// order identified by number. On success every workflow field, the tracking
// pair and the history entry are written atomically; the employee counter
// and the customer notification are best-effort side effects.
func (os *OrderService) ApplyTransition(ctx context.Context, number string, action models.Action, actor *models.Employee, payload models.TransitionPayload) (*models.Order, error) {
	if action == models.ActionReceivePayment {
		return os.receivePayment(ctx, number, actor, payload)
	}

	rule, ok := transitionRules[action]
	if !ok {
		return nil, models.ErrInvalidAction
	}

	if !models.CanPerform(actor, rule.permission) {
		return nil, models.ErrUnauthorized
	}

	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, models.ErrInvalidTransition
	}

	// payment guards are evaluated before the source-state arc: a premature
	// deliver reports the unmet payment precondition, not the wrong status
	if err := checkGuards(order, action); err != nil {
		return nil, err
	}

	if !rule.allowsFrom(order.Status) {
		return nil, models.ErrInvalidTransition
	}

	now := time.Now()
	order.Status = rule.to
	applyTracking(order, action, actor, payload, now)

	change := models.StatusChange{
		OrderID:       order.ID,
		Status:        rule.to,
		ChangedBy:     actor.Email,
		ChangedByRole: actor.Role,
		ChangedAt:     now,
		Notes:         payload.Notes,
	}

	if err := os.repo.ApplyTransition(ctx, order, change); err != nil {
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, change)

	if rule.counter != "" {
		if err := os.counters.IncrementCounter(ctx, actor.ID, rule.counter); err != nil {
			os.logger.Warn("counter increment failed",
				zap.String("number", order.Number),
				zap.String("counter", string(rule.counter)),
				zap.Error(err))
		}
	}

	os.notifier.Notify(order, rule.to)

	return order, nil
}

// receivePayment confirms receipt of collected COD cash by accounts. It is
// a sub-workflow independent of delivery: order status is left untouched.
func (os *OrderService) receivePayment(ctx context.Context, number string, actor *models.Employee, payload models.TransitionPayload) (*models.Order, error) {
	if !models.CanPerform(actor, models.PermReceivePayments) {
		return nil, models.ErrUnauthorized
	}

	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusDelivered && order.Status != models.OrderStatusCompleted {
		return nil, models.ErrInvalidTransition
	}
	if order.PaymentReceivedAt != nil {
		return nil, models.ErrInvalidTransition
	}
	if order.PaymentMethod != models.PaymentMethodCOD || order.CashCollectedAt == nil {
		return nil, models.ErrGuardFailed
	}

	now := time.Now()
	order.PaymentReceivedAt = &now
	order.PaymentReceivedBy = actor.Email
	order.PaymentStatus = models.PaymentStatusPaid

	change := models.StatusChange{
		OrderID:       order.ID,
		Status:        order.Status,
		ChangedBy:     actor.Email,
		ChangedByRole: actor.Role,
		ChangedAt:     now,
		Notes:         payload.Notes,
	}

	if err := os.repo.ApplyTransition(ctx, order, change); err != nil {
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, change)

	if err := os.counters.IncrementCounter(ctx, actor.ID, models.CounterPaymentsReceived); err != nil {
		os.logger.Warn("counter increment failed",
			zap.String("number", order.Number),
			zap.String("counter", string(models.CounterPaymentsReceived)),
			zap.Error(err))
	}

	return order, nil
}

// ConfirmOnlinePayment records a paid signal from the hosted payment
// gateway. It is invoked by the payment webhook, not by employees.
func (os *OrderService) ConfirmOnlinePayment(ctx context.Context, number string) error {
	return os.repo.SetPaymentCompleted(ctx, number, time.Now())
}

// NotifyUnreconciledCash logs delivered COD orders whose cash is still
// awaiting accounts confirmation. Advisory only.
func (os *OrderService) NotifyUnreconciledCash(ctx context.Context) error {
	orders, err := os.repo.ListUnreconciledCashOrders(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		os.logger.Warn("cash awaiting reconciliation",
			zap.String("number", order.Number),
			zap.String("deliveryman", order.AssignedDeliveryman),
			zap.Timep("collected_at", order.CashCollectedAt))
	}

	return nil
}

// checkGuards evaluates business preconditions on top of the arc table.
func checkGuards(order *models.Order, action models.Action) error {
	if action != models.ActionDeliver {
		return nil
	}

	if order.PaymentMethod == models.PaymentMethodCOD {
		// cash must be in hand before a COD order can be delivered
		if order.CashCollectedAt == nil {
			return models.ErrGuardFailed
		}
		return nil
	}

	// card and wallet orders must be paid through the gateway first
	if order.PaymentStatus != models.PaymentStatusPaid {
		return models.ErrGuardFailed
	}
	return nil
}

// applyTracking fills the tracking timestamp+actor pair recorded for the
// completed workflow step.
func applyTracking(order *models.Order, action models.Action, actor *models.Employee, payload models.TransitionPayload, now time.Time) {
	switch action {
	case models.ActionConfirmAddress:
		order.AddressConfirmedAt = &now
		order.AddressConfirmedBy = actor.Email
	case models.ActionConfirmOrder:
		order.OrderConfirmedAt = &now
		order.OrderConfirmedBy = actor.Email
	case models.ActionPackOrder:
		order.PackedAt = &now
		order.PackedBy = actor.Email
	case models.ActionAssignDelivery:
		order.DispatchedAt = &now
		if payload.DeliverymanName != "" {
			order.AssignedDeliveryman = payload.DeliverymanName
		} else {
			order.AssignedDeliveryman = actor.Name
		}
	case models.ActionCollectCash:
		order.CashCollectedAt = &now
	case models.ActionDeliver:
		order.DeliveredAt = &now
		order.DeliveredBy = actor.Email
	case models.ActionComplete:
		order.CompletedAt = &now
	case models.ActionCancel:
		order.CancelledAt = &now
		order.CancelledBy = actor.Email
	}
	// reschedule and fail_delivery leave only a history entry
}

// newOrderNumber builds the human-readable unique order number.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("DKN-%s-%s", now.Format("20060102"), suffix)
}
