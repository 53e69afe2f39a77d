package models

import "time"

// EmployeeRole is one of the six fixed fulfillment roles.
type EmployeeRole string

const (
	RoleCallCenter  EmployeeRole = "call_center"
	RolePacker      EmployeeRole = "packer"
	RoleWarehouse   EmployeeRole = "warehouse"
	RoleDeliveryMan EmployeeRole = "delivery_man"
	RoleInCharge    EmployeeRole = "in_charge"
	RoleAccounts    EmployeeRole = "accounts"
)

// employee status
const (
	EmployeeStatusActive    = "active"
	EmployeeStatusInactive  = "inactive"
	EmployeeStatusSuspended = "suspended"
)

// Employee is an actor authorized to drive order transitions. Role is
// assigned by an admin; the permission set is derived from the role, never
// stored per employee.
type Employee struct {
	ID           uint64
	UserID       uint64
	Name         string
	Email        string
	Role         EmployeeRole
	Status       string
	StatusReason string
	Counters     EmployeeCounters
	CreatedAt    time.Time
}

// EmployeeCounters are advisory performance counters incremented as a
// best-effort side effect of successful transitions. They are reporting
// data, not authoritative state.
type EmployeeCounters struct {
	OrdersConfirmed    uint64
	OrdersPacked       uint64
	DeliveriesAssigned uint64
	OrdersDelivered    uint64
	CashCollections    uint64
	PaymentsReceived   uint64
}

// CounterKind names one employee performance counter.
type CounterKind string

const (
	CounterOrdersConfirmed    CounterKind = "orders_confirmed"
	CounterOrdersPacked       CounterKind = "orders_packed"
	CounterDeliveriesAssigned CounterKind = "deliveries_assigned"
	CounterOrdersDelivered    CounterKind = "orders_delivered"
	CounterCashCollections    CounterKind = "cash_collections"
	CounterPaymentsReceived   CounterKind = "payments_received"
)

// ValidRole reports whether role is one of the six known roles. Unknown
// roles are rejected at data-entry time, never inside the permission lookup.
func ValidRole(role EmployeeRole) bool {
	_, ok := rolePermissions[role]
	return ok
}
