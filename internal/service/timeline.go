package service

import (
	"github.com/dokanhq/dokan/internal/models"
)

// DeriveTimeline projects the order's tracking fields onto the ordered
// list of display steps. Pure function: safe to call on every read.
//
// A cancelled order collapses to exactly two completed steps, Order Placed
// and Order Cancelled, because cancellation abandons the rest of the
// pipeline rather than marking it failed.
func DeriveTimeline(order *models.Order) []models.TimelineStep {
	placedAt := order.CreatedAt

	if order.Status == models.OrderStatusCancelled {
		return []models.TimelineStep{
			{
				Key:   models.StepKeyPlaced,
				Label: "Order Placed",
				State: models.StepCompleted,
				At:    &placedAt,
			},
			{
				Key:   models.StepKeyCancelled,
				Label: "Order Cancelled",
				State: models.StepCompleted,
				At:    order.CancelledAt,
				By:    order.CancelledBy,
			},
		}
	}

	steps := []models.TimelineStep{
		{Key: models.StepKeyPlaced, Label: "Order Placed", At: &placedAt},
		{Key: models.StepKeyAddressConfirm, Label: "Address Confirmation", At: order.AddressConfirmedAt, By: order.AddressConfirmedBy},
		{Key: models.StepKeyOrderConfirm, Label: "Order Confirmation", At: order.OrderConfirmedAt, By: order.OrderConfirmedBy},
		{Key: models.StepKeyPacking, Label: "Packing", At: order.PackedAt, By: order.PackedBy},
		{Key: models.StepKeyOutForDelivery, Label: "Out for Delivery", At: order.DispatchedAt, By: order.AssignedDeliveryman},
	}

	if order.PaymentMethod == models.PaymentMethodCOD {
		steps = append(steps, models.TimelineStep{
			Key:   models.StepKeyCashCollection,
			Label: "Payment Collection",
			At:    order.CashCollectedAt,
			By:    order.AssignedDeliveryman,
		})
	} else if order.PaymentCompletedAt != nil {
		payStep := models.TimelineStep{
			Key:   models.StepKeyOnlinePayment,
			Label: "Payment Received",
			At:    order.PaymentCompletedAt,
		}
		// the step is slotted by its timestamp: a payment made before
		// dispatch sits right after placement, keeping completed steps ahead
		// of pending ones
		if order.DispatchedAt == nil || order.PaymentCompletedAt.Before(*order.DispatchedAt) {
			steps = append([]models.TimelineStep{steps[0], payStep}, steps[1:]...)
		} else {
			steps = append(steps, payStep)
		}
	}

	steps = append(steps, models.TimelineStep{
		Key:   models.StepKeyDelivered,
		Label: "Delivered",
		At:    order.DeliveredAt,
		By:    order.DeliveredBy,
	})

	markStates(steps)
	return steps
}

// markStates sets completed for every step with a recorded timestamp,
// current for the first step without one, pending for the rest.
func markStates(steps []models.TimelineStep) {
	current := false
	for i := range steps {
		switch {
		case steps[i].At != nil:
			steps[i].State = models.StepCompleted
		case !current:
			steps[i].State = models.StepCurrent
			current = true
		default:
			steps[i].State = models.StepPending
		}
	}
}

// Progress returns the order's completion percentage for the admin UI.
func Progress(order *models.Order) int {
	if order.Status == models.OrderStatusCancelled {
		return 100
	}

	steps := DeriveTimeline(order)
	completed := 0
	for _, step := range steps {
		if step.State == models.StepCompleted {
			completed++
		}
	}
	return completed * 100 / len(steps)
}
