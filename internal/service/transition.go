package service

import "github.com/dokanhq/dokan/internal/models"

// transitionRule describes one workflow action: the permission it
// requires, the statuses it may be applied from, the status it moves the
// order to, and the employee counter it credits.
type transitionRule struct {
	permission models.Permission
	from       []models.OrderStatus
	to         models.OrderStatus
	counter    models.CounterKind
}

// transitionRules is the declarative arc table of the fulfillment state
// machine. receive_payment is absent on purpose: it is the cash
// reconciliation sub-workflow and never changes order status.
var transitionRules = map[models.Action]transitionRule{
	models.ActionConfirmAddress: {
		permission: models.PermConfirmOrders,
		from:       []models.OrderStatus{models.OrderStatusPending},
		to:         models.OrderStatusAddressConfirmed,
	},
	models.ActionConfirmOrder: {
		permission: models.PermConfirmOrders,
		from:       []models.OrderStatus{models.OrderStatusAddressConfirmed},
		to:         models.OrderStatusOrderConfirmed,
		counter:    models.CounterOrdersConfirmed,
	},
	models.ActionPackOrder: {
		permission: models.PermPackOrders,
		from:       []models.OrderStatus{models.OrderStatusOrderConfirmed},
		to:         models.OrderStatusPacked,
		counter:    models.CounterOrdersPacked,
	},
	models.ActionAssignDelivery: {
		permission: models.PermAssignDelivery,
		from: []models.OrderStatus{
			models.OrderStatusPacked,
			// retry of dispatch after a recoverable delivery side-branch
			models.OrderStatusRescheduled,
			models.OrderStatusFailedDelivery,
		},
		to:      models.OrderStatusOutForDelivery,
		counter: models.CounterDeliveriesAssigned,
	},
	models.ActionCollectCash: {
		permission: models.PermCollectCash,
		from:       []models.OrderStatus{models.OrderStatusOutForDelivery},
		to:         models.OrderStatusCashCollected,
		counter:    models.CounterCashCollections,
	},
	models.ActionDeliver: {
		permission: models.PermDeliverOrders,
		from: []models.OrderStatus{
			models.OrderStatusOutForDelivery,
			models.OrderStatusCashCollected,
		},
		to:      models.OrderStatusDelivered,
		counter: models.CounterOrdersDelivered,
	},
	models.ActionComplete: {
		// supervisory close-out, in-charge only
		permission: models.PermManageEmployees,
		from:       []models.OrderStatus{models.OrderStatusDelivered},
		to:         models.OrderStatusCompleted,
	},
	models.ActionReschedule: {
		permission: models.PermDeliverOrders,
		from:       []models.OrderStatus{models.OrderStatusOutForDelivery},
		to:         models.OrderStatusRescheduled,
	},
	models.ActionFailDelivery: {
		permission: models.PermDeliverOrders,
		from:       []models.OrderStatus{models.OrderStatusOutForDelivery},
		to:         models.OrderStatusFailedDelivery,
	},
	models.ActionCancel: {
		permission: models.PermConfirmOrders,
		from: []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusAddressConfirmed,
			models.OrderStatusOrderConfirmed,
			models.OrderStatusPacked,
			models.OrderStatusOutForDelivery,
			models.OrderStatusCashCollected,
			models.OrderStatusRescheduled,
			models.OrderStatusFailedDelivery,
		},
		to: models.OrderStatusCancelled,
	},
}

func (r transitionRule) allowsFrom(status models.OrderStatus) bool {
	for _, s := range r.from {
		if s == status {
			return true
		}
	}
	return false
}
