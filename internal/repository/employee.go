package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/dokanhq/dokan/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, user_id, name, email, role, status, status_reason,
						orders_confirmed, orders_packed, deliveries_assigned,
						orders_delivered, cash_collections, payments_received, created_at`

const (
	insertEmployeeQuery = `
						INSERT INTO employees (user_id, name, email, role)
						VALUES ($1, $2, $3, $4)
						RETURNING id, status, created_at
`
	selectEmployeeByIDQuery = `
						SELECT ` + employeeColumns + ` FROM employees
						WHERE id = $1
`
	selectEmployeeByUserIDQuery = `
						SELECT ` + employeeColumns + ` FROM employees
						WHERE user_id = $1
`
	selectEmployeesQuery = `
						SELECT ` + employeeColumns + ` FROM employees
						ORDER BY created_at
`
	updateEmployeeStatusQuery = `
						UPDATE employees
						SET status = $1, status_reason = $2
						WHERE id = $3
`
)

// counterColumns whitelists the counter column per kind; the column name
// is interpolated, never user input.
var counterColumns = map[models.CounterKind]string{
	models.CounterOrdersConfirmed:    "orders_confirmed",
	models.CounterOrdersPacked:       "orders_packed",
	models.CounterDeliveriesAssigned: "deliveries_assigned",
	models.CounterOrdersDelivered:    "orders_delivered",
	models.CounterCashCollections:    "cash_collections",
	models.CounterPaymentsReceived:   "payments_received",
}

// EmployeeRepository implements service.EmployeeRepository interface
type EmployeeRepository struct {
	db *postgres.DB
}

// NewEmployeeRepository creates new EmployeeRepository instance
func NewEmployeeRepository(db *postgres.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// CreateEmployee inserts a new employee record
func (er *EmployeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	err := er.db.QueryRow(ctx, insertEmployeeQuery,
		employee.UserID, employee.Name, employee.Email, employee.Role).
		Scan(&employee.ID, &employee.Status, &employee.CreatedAt)
	if err != nil {
		if errCode := er.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return employee, nil
}

// GetEmployeeByID returns employee by id
func (er *EmployeeRepository) GetEmployeeByID(ctx context.Context, id uint64) (*models.Employee, error) {
	return er.getEmployee(ctx, selectEmployeeByIDQuery, id)
}

// GetEmployeeByUserID returns the employee record for a user account
func (er *EmployeeRepository) GetEmployeeByUserID(ctx context.Context, userID uint64) (*models.Employee, error) {
	return er.getEmployee(ctx, selectEmployeeByUserIDQuery, userID)
}

// ListEmployees returns all employees
func (er *EmployeeRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := er.db.Query(ctx, selectEmployeesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}

	for rows.Next() {
		employee := models.Employee{}
		if err := scanEmployee(rows, &employee); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// UpdateEmployeeStatus changes the employee status with a reason audit
func (er *EmployeeRepository) UpdateEmployeeStatus(ctx context.Context, id uint64, status, reason string) error {
	cmd, err := er.db.Exec(ctx, updateEmployeeStatusQuery, status, reason, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// IncrementCounter increments one performance counter
func (er *EmployeeRepository) IncrementCounter(ctx context.Context, employeeID uint64, kind models.CounterKind) error {
	column, ok := counterColumns[kind]
	if !ok {
		return models.ErrInternalError
	}

	query := fmt.Sprintf("UPDATE employees SET %s = %s + 1 WHERE id = $1", column, column)

	cmd, err := er.db.Exec(ctx, query, employeeID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

func (er *EmployeeRepository) getEmployee(ctx context.Context, query string, arg any) (*models.Employee, error) {
	employee := models.Employee{}
	err := scanEmployee(er.db.QueryRow(ctx, query, arg), &employee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &employee, nil
}

func scanEmployee(row pgx.Row, employee *models.Employee) error {
	return row.Scan(
		&employee.ID, &employee.UserID, &employee.Name, &employee.Email,
		&employee.Role, &employee.Status, &employee.StatusReason,
		&employee.Counters.OrdersConfirmed, &employee.Counters.OrdersPacked,
		&employee.Counters.DeliveriesAssigned, &employee.Counters.OrdersDelivered,
		&employee.Counters.CashCollections, &employee.Counters.PaymentsReceived,
		&employee.CreatedAt)
}
