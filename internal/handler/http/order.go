package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	// Create registers a checkout order in pending status
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetByNumber returns one order with items and history
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	// ListByCustomer returns the customer's orders
	ListByCustomer(ctx context.Context, customerID uint64) ([]models.Order, error)
	// List returns a page of all orders for the admin console
	List(ctx context.Context, actor *models.Employee, limit, offset int) ([]models.Order, error)
	// Summary returns order counts by status
	Summary(ctx context.Context, actor *models.Employee) (map[models.OrderStatus]int64, error)
	// Timeline returns the derived progress projection for one order
	Timeline(ctx context.Context, number string) ([]models.TimelineStep, error)
	// ApplyTransition validates and applies a workflow action
	ApplyTransition(ctx context.Context, number string, action models.Action, actor *models.Employee, payload models.TransitionPayload) (*models.Order, error)
}

// EmployeeResolver resolves the acting employee from the auth payload.
type EmployeeResolver interface {
	GetByUserID(ctx context.Context, userID uint64) (*models.Employee, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc       OrderService
	employees EmployeeResolver
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService, employees EmployeeResolver) *OrderHandler {
	return &OrderHandler{
		svc:       svc,
		employees: employees,
	}
}

type orderItemReq struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	DeliveryAddress string         `json:"delivery_address"`
	PaymentMethod   string         `json:"payment_method"`
	Currency        string         `json:"currency"`
	Tax             float64        `json:"tax"`
	Shipping        float64        `json:"shipping"`
	Items           []orderItemReq `json:"items"`
}

type orderItemResp struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type statusChangeResp struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	Role      string `json:"changed_by_role,omitempty"`
	ChangedAt string `json:"changed_at"`
	Notes     string `json:"notes,omitempty"`
}

type orderResponse struct {
	Number        string             `json:"number"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      float64            `json:"subtotal"`
	Tax           float64            `json:"tax"`
	Shipping      float64            `json:"shipping"`
	Total         float64            `json:"total"`
	Currency      string             `json:"currency"`
	Items         []orderItemResp    `json:"items,omitempty"`
	History       []statusChangeResp `json:"history,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		Number:        order.Number,
		Status:        string(order.Status),
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		Currency:      order.Currency,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResp{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	for _, change := range order.StatusHistory {
		resp.History = append(resp.History, statusChangeResp{
			Status:    string(change.Status),
			ChangedBy: change.ChangedBy,
			Role:      string(change.ChangedByRole),
			ChangedAt: change.ChangedAt.Format(time.RFC3339),
			Notes:     change.Notes,
		})
	}
	return resp
}

// CreateOrder registers a checkout order
// 201 — order created;
// 400 — bad request body or invalid order data;
// 401 — not authenticated;
// 500 — internal server error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order := models.Order{
			CustomerID:      payload.UserID,
			CustomerName:    req.CustomerName,
			CustomerEmail:   payload.Email,
			CustomerPhone:   req.CustomerPhone,
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   req.PaymentMethod,
			Currency:        req.Currency,
			Tax:             req.Tax,
			Shipping:        req.Shipping,
		}
		for _, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}

		created, err := oh.svc.Create(r.Context(), &order)
		if err != nil {
			if errors.Is(err, models.ErrInvalidOrderData) {
				http.Error(w, "invalid order data", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toOrderResponse(created))
	}
}

// GetOrder returns one order. Customers may read only their own orders;
// employees may read any.
// 200 — success;
// 401 — not authenticated;
// 403 — not the order owner and not an employee;
// 404 — order not found.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := oh.svc.GetByNumber(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if order.CustomerID != payload.UserID {
			if _, err := oh.employees.GetByUserID(r.Context(), payload.UserID); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// ListUserOrders returns the authenticated customer's orders
// 200 — success;
// 204 — no orders;
// 401 — not authenticated;
// 500 — internal server error.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListByCustomer(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ListOrders returns a page of all orders for the admin console
// 200 — success;
// 401 — not authenticated;
// 403 — actor is not an employee with analytics access;
// 500 — internal server error.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := oh.resolveActor(w, r)
		if !ok {
			return
		}

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 || limit > 100 {
			limit = 20
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page <= 0 {
			page = 1
		}

		orders, err := oh.svc.List(r.Context(), actor, limit, (page-1)*limit)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetOrderSummary returns order counts by status
// 200 — success;
// 401 — not authenticated;
// 403 — actor lacks analytics access;
// 500 — internal server error.
func (oh *OrderHandler) GetOrderSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := oh.resolveActor(w, r)
		if !ok {
			return
		}

		counts, err := oh.svc.Summary(r.Context(), actor)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, counts)
	}
}

type timelineStepResp struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	State string `json:"state"`
	At    string `json:"at,omitempty"`
	By    string `json:"by,omitempty"`
}

// GetOrderTimeline returns the derived progress view of one order
// 200 — success;
// 401 — not authenticated;
// 404 — order not found.
func (oh *OrderHandler) GetOrderTimeline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := getAuthPayload(r.Context(), authPayloadKey); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		steps, err := oh.svc.Timeline(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]timelineStepResp, 0, len(steps))
		for _, step := range steps {
			sr := timelineStepResp{
				Key:   step.Key,
				Label: step.Label,
				State: string(step.State),
				By:    step.By,
			}
			if step.At != nil {
				sr.At = step.At.Format(time.RFC3339)
			}
			resp = append(resp, sr)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type transitionRequest struct {
	Action          string `json:"action"`
	Notes           string `json:"notes"`
	DeliverymanName string `json:"deliveryman_name"`
}

// ApplyTransition applies a workflow action to an order
// 200 — transition applied;
// 400 — bad request body or unknown action;
// 401 — not authenticated;
// 403 — actor is not an employee or lacks the required permission;
// 404 — order not found;
// 409 — order was modified concurrently, refresh and retry;
// 422 — action not valid from current status, or precondition unmet;
// 500 — internal server error.
func (oh *OrderHandler) ApplyTransition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := oh.resolveActor(w, r)
		if !ok {
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.ApplyTransition(r.Context(),
			chi.URLParam(r, "number"),
			models.Action(req.Action),
			actor,
			models.TransitionPayload{
				Notes:           req.Notes,
				DeliverymanName: req.DeliverymanName,
			})
		if err != nil {
			writeTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// resolveActor extracts the auth payload and resolves the acting employee,
// writing the error response itself when that fails.
func (oh *OrderHandler) resolveActor(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	payload, ok := getAuthPayload(r.Context(), authPayloadKey)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	actor, err := oh.employees.GetByUserID(r.Context(), payload.UserID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return nil, false
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}

	return actor, true
}

func writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, "action not allowed for this employee", http.StatusForbidden)
	case errors.Is(err, models.ErrInvalidAction):
		http.Error(w, "unknown action", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidTransition):
		http.Error(w, "action not valid from current order status", http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrGuardFailed):
		http.Error(w, "transition precondition not met", http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrStaleOrder):
		http.Error(w, "order was modified, refresh and retry", http.StatusConflict)
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
