package models

// Permission names one capability an employee role may hold.
type Permission string

const (
	PermConfirmOrders   Permission = "confirm_orders"
	PermPackOrders      Permission = "pack_orders"
	PermAssignDelivery  Permission = "assign_delivery"
	PermDeliverOrders   Permission = "deliver_orders"
	PermCollectCash     Permission = "collect_cash"
	PermReceivePayments Permission = "receive_payments"
	PermViewAnalytics   Permission = "view_analytics"
	PermManageEmployees Permission = "manage_employees"
)

// PermissionSet is the fixed capability record derived from a role.
type PermissionSet struct {
	ConfirmOrders   bool
	PackOrders      bool
	AssignDelivery  bool
	DeliverOrders   bool
	CollectCash     bool
	ReceivePayments bool
	ViewAnalytics   bool
	ManageEmployees bool
}

// rolePermissions is the single source of truth mapping roles to
// capabilities. One row per role, no inheritance; in_charge is the
// all-true supervisory superset.
var rolePermissions = map[EmployeeRole]PermissionSet{
	RoleCallCenter: {
		ConfirmOrders: true,
		ViewAnalytics: true,
	},
	RolePacker: {
		PackOrders: true,
	},
	RoleWarehouse: {
		PackOrders:     true,
		AssignDelivery: true,
	},
	RoleDeliveryMan: {
		DeliverOrders: true,
		CollectCash:   true,
	},
	RoleInCharge: {
		ConfirmOrders:   true,
		PackOrders:      true,
		AssignDelivery:  true,
		DeliverOrders:   true,
		CollectCash:     true,
		ReceivePayments: true,
		ViewAnalytics:   true,
		ManageEmployees: true,
	},
	RoleAccounts: {
		ReceivePayments: true,
		ViewAnalytics:   true,
	},
}

// PermissionsFor returns the capability set for role. The function is
// total: an unknown role yields the zero set, which denies everything.
func PermissionsFor(role EmployeeRole) PermissionSet {
	return rolePermissions[role]
}

// Has reports whether the set grants p.
func (ps PermissionSet) Has(p Permission) bool {
	switch p {
	case PermConfirmOrders:
		return ps.ConfirmOrders
	case PermPackOrders:
		return ps.PackOrders
	case PermAssignDelivery:
		return ps.AssignDelivery
	case PermDeliverOrders:
		return ps.DeliverOrders
	case PermCollectCash:
		return ps.CollectCash
	case PermReceivePayments:
		return ps.ReceivePayments
	case PermViewAnalytics:
		return ps.ViewAnalytics
	case PermManageEmployees:
		return ps.ManageEmployees
	}
	return false
}

// CanPerform is the authorization check used by the transition engine and
// route handlers. Suspended and inactive employees retain their role
// mapping but fail every check.
func CanPerform(e *Employee, p Permission) bool {
	if e == nil || e.Status != EmployeeStatusActive {
		return false
	}
	return PermissionsFor(e.Role).Has(p)
}
