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

type EmployeeService interface {
	// Create assigns a role to an existing user
	Create(ctx context.Context, actor *models.Employee, employee *models.Employee) (*models.Employee, error)
	// Suspend deactivates an employee with a recorded reason
	Suspend(ctx context.Context, actor *models.Employee, id uint64, reason string) error
	// Reactivate returns an employee to active status
	Reactivate(ctx context.Context, actor *models.Employee, id uint64, reason string) error
	// List returns all employees
	List(ctx context.Context, actor *models.Employee) ([]models.Employee, error)
	// GetByUserID resolves the employee record behind a user account
	GetByUserID(ctx context.Context, userID uint64) (*models.Employee, error)
}

// EmployeeHandler represents HTTP handler for employee-related requests
type EmployeeHandler struct {
	svc EmployeeService
}

// NewEmployeeHandler creates new EmployeeHandler instance
func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type createEmployeeRequest struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type employeeResponse struct {
	ID           uint64 `json:"id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	StatusReason string `json:"status_reason,omitempty"`

	OrdersConfirmed    uint64 `json:"orders_confirmed"`
	OrdersPacked       uint64 `json:"orders_packed"`
	DeliveriesAssigned uint64 `json:"deliveries_assigned"`
	OrdersDelivered    uint64 `json:"orders_delivered"`
	CashCollections    uint64 `json:"cash_collections"`
	PaymentsReceived   uint64 `json:"payments_received"`

	CreatedAt string `json:"created_at"`
}

func toEmployeeResponse(e *models.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         string(e.Role),
		Status:       e.Status,
		StatusReason: e.StatusReason,

		OrdersConfirmed:    e.Counters.OrdersConfirmed,
		OrdersPacked:       e.Counters.OrdersPacked,
		DeliveriesAssigned: e.Counters.DeliveriesAssigned,
		OrdersDelivered:    e.Counters.OrdersDelivered,
		CashCollections:    e.Counters.CashCollections,
		PaymentsReceived:   e.Counters.PaymentsReceived,

		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// CreateEmployee assigns a role to an existing user
// 201 — employee created;
// 400 — bad request body;
// 401 — not authenticated;
// 403 — actor may not manage employees;
// 409 — user is already an employee;
// 422 — unknown role;
// 500 — internal server error.
func (eh *EmployeeHandler) CreateEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := eh.resolveActor(w, r)
		if !ok {
			return
		}

		var req createEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		employee := models.Employee{
			UserID: req.UserID,
			Name:   req.Name,
			Email:  req.Email,
			Role:   models.EmployeeRole(req.Role),
		}

		created, err := eh.svc.Create(r.Context(), actor, &employee)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrInvalidRole):
				http.Error(w, "unknown role", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "user is already an employee", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toEmployeeResponse(created))
	}
}

// ListEmployees returns all employees
// 200 — success;
// 401 — not authenticated;
// 403 — actor may not manage employees;
// 500 — internal server error.
func (eh *EmployeeHandler) ListEmployees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := eh.resolveActor(w, r)
		if !ok {
			return
		}

		employees, err := eh.svc.List(r.Context(), actor)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]employeeResponse, 0, len(employees))
		for i := range employees {
			resp = append(resp, toEmployeeResponse(&employees[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type statusChangeRequest struct {
	Reason string `json:"reason"`
}

// SuspendEmployee suspends an employee with a reason audit
// 200 — suspended;
// 400 — bad request;
// 401 — not authenticated;
// 403 — actor may not manage employees;
// 404 — employee not found;
// 500 — internal server error.
func (eh *EmployeeHandler) SuspendEmployee() http.HandlerFunc {
	return eh.statusChange(func(ctx context.Context, actor *models.Employee, id uint64, reason string) error {
		return eh.svc.Suspend(ctx, actor, id, reason)
	})
}

// ReactivateEmployee returns an employee to active status
// 200 — reactivated;
// 400 — bad request;
// 401 — not authenticated;
// 403 — actor may not manage employees;
// 404 — employee not found;
// 500 — internal server error.
func (eh *EmployeeHandler) ReactivateEmployee() http.HandlerFunc {
	return eh.statusChange(func(ctx context.Context, actor *models.Employee, id uint64, reason string) error {
		return eh.svc.Reactivate(ctx, actor, id, reason)
	})
}

func (eh *EmployeeHandler) statusChange(apply func(ctx context.Context, actor *models.Employee, id uint64, reason string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := eh.resolveActor(w, r)
		if !ok {
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req statusChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := apply(r.Context(), actor, id, req.Reason); err != nil {
			switch {
			case errors.Is(err, models.ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "employee not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func (eh *EmployeeHandler) resolveActor(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	payload, ok := getAuthPayload(r.Context(), authPayloadKey)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	actor, err := eh.svc.GetByUserID(r.Context(), payload.UserID)
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
