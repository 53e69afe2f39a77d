package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allPermissions = []Permission{
	PermConfirmOrders, PermPackOrders, PermAssignDelivery, PermDeliverOrders,
	PermCollectCash, PermReceivePayments, PermViewAnalytics, PermManageEmployees,
}

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		role    EmployeeRole
		granted []Permission
	}{
		{RoleCallCenter, []Permission{PermConfirmOrders, PermViewAnalytics}},
		{RolePacker, []Permission{PermPackOrders}},
		{RoleWarehouse, []Permission{PermPackOrders, PermAssignDelivery}},
		{RoleDeliveryMan, []Permission{PermDeliverOrders, PermCollectCash}},
		{RoleAccounts, []Permission{PermReceivePayments, PermViewAnalytics}},
		{RoleInCharge, allPermissions},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			ps := PermissionsFor(tt.role)

			granted := map[Permission]bool{}
			for _, p := range tt.granted {
				granted[p] = true
			}

			for _, p := range allPermissions {
				assert.Equal(t, granted[p], ps.Has(p), "permission %s", p)
			}
		})
	}
}

func TestPermissionsFor_UnknownRoleDeniesEverything(t *testing.T) {
	ps := PermissionsFor(EmployeeRole("janitor"))
	for _, p := range allPermissions {
		assert.False(t, ps.Has(p), "permission %s", p)
	}
}

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name     string
		employee *Employee
		perm     Permission
		want     bool
	}{
		{
			name:     "active_with_permission",
			employee: &Employee{Role: RolePacker, Status: EmployeeStatusActive},
			perm:     PermPackOrders,
			want:     true,
		},
		{
			name:     "active_without_permission",
			employee: &Employee{Role: RolePacker, Status: EmployeeStatusActive},
			perm:     PermDeliverOrders,
			want:     false,
		},
		{
			name:     "suspended_keeps_role_but_fails",
			employee: &Employee{Role: RoleInCharge, Status: EmployeeStatusSuspended},
			perm:     PermConfirmOrders,
			want:     false,
		},
		{
			name:     "inactive_fails",
			employee: &Employee{Role: RoleDeliveryMan, Status: EmployeeStatusInactive},
			perm:     PermDeliverOrders,
			want:     false,
		},
		{
			name:     "nil_employee",
			employee: nil,
			perm:     PermConfirmOrders,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.employee, tt.perm))
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []EmployeeRole{RoleCallCenter, RolePacker, RoleWarehouse, RoleDeliveryMan, RoleInCharge, RoleAccounts} {
		assert.True(t, ValidRole(role), string(role))
	}
	assert.False(t, ValidRole("janitor"))
	assert.False(t, ValidRole(""))
}
