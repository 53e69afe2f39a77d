package service

import (
	"context"

	"github.com/dokanhq/dokan/internal/models"
)

// EmployeeRepository is interface for interacting with employee-related data
type EmployeeRepository interface {
	// CreateEmployee inserts a new employee record
	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	// GetEmployeeByID returns employee by id
	GetEmployeeByID(ctx context.Context, id uint64) (*models.Employee, error)
	// GetEmployeeByUserID returns the employee record for a user account
	GetEmployeeByUserID(ctx context.Context, userID uint64) (*models.Employee, error)
	// ListEmployees returns all employees
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	// UpdateEmployeeStatus changes the employee status with a reason audit
	UpdateEmployeeStatus(ctx context.Context, id uint64, status, reason string) error
	// IncrementCounter increments one performance counter
	IncrementCounter(ctx context.Context, employeeID uint64, kind models.CounterKind) error
}

// EmployeeService manages employee records. Every mutating operation is
// gated on the acting employee holding the manage-employees capability.
type EmployeeService struct {
	repo EmployeeRepository
}

// NewEmployeeService creates new EmployeeService instance
func NewEmployeeService(repo EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// Create assigns a role to an existing user, making them an employee.
// Unknown roles are rejected here, at data-entry time.
func (es *EmployeeService) Create(ctx context.Context, actor *models.Employee, employee *models.Employee) (*models.Employee, error) {
	if !models.CanPerform(actor, models.PermManageEmployees) {
		return nil, models.ErrUnauthorized
	}
	if !models.ValidRole(employee.Role) {
		return nil, models.ErrInvalidRole
	}

	employee.Status = models.EmployeeStatusActive

	return es.repo.CreateEmployee(ctx, employee)
}

// Suspend deactivates an employee with a recorded reason. The role mapping
// is retained; every authorization check fails while suspended.
func (es *EmployeeService) Suspend(ctx context.Context, actor *models.Employee, id uint64, reason string) error {
	if !models.CanPerform(actor, models.PermManageEmployees) {
		return models.ErrUnauthorized
	}
	return es.repo.UpdateEmployeeStatus(ctx, id, models.EmployeeStatusSuspended, reason)
}

// Reactivate returns a suspended or inactive employee to active status.
func (es *EmployeeService) Reactivate(ctx context.Context, actor *models.Employee, id uint64, reason string) error {
	if !models.CanPerform(actor, models.PermManageEmployees) {
		return models.ErrUnauthorized
	}
	return es.repo.UpdateEmployeeStatus(ctx, id, models.EmployeeStatusActive, reason)
}

// List returns all employees for the admin console.
func (es *EmployeeService) List(ctx context.Context, actor *models.Employee) ([]models.Employee, error) {
	if !models.CanPerform(actor, models.PermManageEmployees) {
		return nil, models.ErrUnauthorized
	}
	return es.repo.ListEmployees(ctx)
}

// GetByUserID resolves the employee record behind a user account. Route
// handlers use it to resolve the acting employee from the auth payload.
func (es *EmployeeService) GetByUserID(ctx context.Context, userID uint64) (*models.Employee, error) {
	return es.repo.GetEmployeeByUserID(ctx, userID)
}
