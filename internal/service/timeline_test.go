package service

import (
	"context"
	"testing"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepKeys(steps []models.TimelineStep) []string {
	keys := make([]string, 0, len(steps))
	for _, step := range steps {
		keys = append(keys, step.Key)
	}
	return keys
}

func TestDeriveTimeline_NewCODOrder(t *testing.T) {
	order := testOrder(models.PaymentMethodCOD, models.OrderStatusPending)

	steps := DeriveTimeline(order)

	want := []string{
		models.StepKeyPlaced,
		models.StepKeyAddressConfirm,
		models.StepKeyOrderConfirm,
		models.StepKeyPacking,
		models.StepKeyOutForDelivery,
		models.StepKeyCashCollection,
		models.StepKeyDelivered,
	}
	if diff := cmp.Diff(want, stepKeys(steps)); diff != "" {
		t.Errorf("step keys mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, models.StepCompleted, steps[0].State)
	assert.Equal(t, models.StepCurrent, steps[1].State)
	for _, step := range steps[2:] {
		assert.Equal(t, models.StepPending, step.State, step.Key)
	}
}

func TestDeriveTimeline_CardOrderSubstitutesPaymentStep(t *testing.T) {
	order := testOrder(models.PaymentMethodCard, models.OrderStatusPending)

	// no payment yet: no payment step at all
	steps := DeriveTimeline(order)
	assert.NotContains(t, stepKeys(steps), models.StepKeyCashCollection)
	assert.NotContains(t, stepKeys(steps), models.StepKeyOnlinePayment)

	// paid at checkout, not dispatched yet: the completed payment step sits
	// right after placement
	paidAt := time.Now()
	order.PaymentCompletedAt = &paidAt
	steps = DeriveTimeline(order)
	require.Equal(t, models.StepKeyOnlinePayment, steps[1].Key)
	assert.Equal(t, models.StepCompleted, steps[1].State)
	assert.NotContains(t, stepKeys(steps), models.StepKeyCashCollection)

	// paid after dispatch: the payment step follows the dispatch step
	dispatchedAt := paidAt.Add(-time.Minute)
	order.DispatchedAt = &dispatchedAt
	steps = DeriveTimeline(order)
	require.Len(t, steps, 7)
	assert.Equal(t, models.StepKeyOutForDelivery, steps[4].Key)
	assert.Equal(t, models.StepKeyOnlinePayment, steps[5].Key)
}

func TestDeriveTimeline_Monotonicity(t *testing.T) {
	// at no point may a later step be completed while an earlier one is
	// still pending
	checkMonotonic := func(t *testing.T, order *models.Order) {
		t.Helper()
		seenIncomplete := false
		for _, step := range DeriveTimeline(order) {
			if step.State != models.StepCompleted {
				seenIncomplete = true
				continue
			}
			assert.False(t, seenIncomplete, "completed step %q after incomplete step", step.Key)
		}
	}

	walk := func(t *testing.T, repo *fakeOrderRepo, svc *OrderService, steps []struct {
		action models.Action
		actor  *models.Employee
	}) *models.Order {
		t.Helper()
		ctx := context.Background()
		number := "DKN-20250101-ABCD1234"

		order, err := repo.GetOrderByNumber(ctx, number)
		require.NoError(t, err)
		checkMonotonic(t, order)

		for _, step := range steps {
			order, err = svc.ApplyTransition(ctx, number, step.action, step.actor, models.TransitionPayload{})
			require.NoError(t, err, "action %s", step.action)
			checkMonotonic(t, order)
		}
		return order
	}

	t.Run("cod", func(t *testing.T) {
		repo := newFakeOrderRepo(testOrder(models.PaymentMethodCOD, models.OrderStatusPending))
		svc, _, _ := newTestService(repo)

		order := walk(t, repo, svc, []struct {
			action models.Action
			actor  *models.Employee
		}{
			{models.ActionConfirmAddress, testEmployee(models.RoleCallCenter)},
			{models.ActionConfirmOrder, testEmployee(models.RoleCallCenter)},
			{models.ActionPackOrder, testEmployee(models.RolePacker)},
			{models.ActionAssignDelivery, testEmployee(models.RoleWarehouse)},
			{models.ActionCollectCash, testEmployee(models.RoleDeliveryMan)},
			{models.ActionDeliver, testEmployee(models.RoleDeliveryMan)},
		})

		// fully delivered: everything completed
		for _, step := range DeriveTimeline(order) {
			assert.Equal(t, models.StepCompleted, step.State, step.Key)
		}
	})

	t.Run("card_paid_at_checkout", func(t *testing.T) {
		repo := newFakeOrderRepo(testOrder(models.PaymentMethodCard, models.OrderStatusPending))
		svc, _, _ := newTestService(repo)

		// the gateway confirms the payment while the order is still pending
		require.NoError(t, svc.ConfirmOnlinePayment(context.Background(), "DKN-20250101-ABCD1234"))

		order := walk(t, repo, svc, []struct {
			action models.Action
			actor  *models.Employee
		}{
			{models.ActionConfirmAddress, testEmployee(models.RoleCallCenter)},
			{models.ActionConfirmOrder, testEmployee(models.RoleCallCenter)},
			{models.ActionPackOrder, testEmployee(models.RolePacker)},
			{models.ActionAssignDelivery, testEmployee(models.RoleWarehouse)},
			{models.ActionDeliver, testEmployee(models.RoleDeliveryMan)},
		})

		for _, step := range DeriveTimeline(order) {
			assert.Equal(t, models.StepCompleted, step.State, step.Key)
		}
	})

	t.Run("card_paid_after_dispatch", func(t *testing.T) {
		now := time.Now()
		earlier := func(minutes int) *time.Time {
			at := now.Add(time.Duration(-minutes) * time.Minute)
			return &at
		}

		order := testOrder(models.PaymentMethodCard, models.OrderStatusOutForDelivery)
		order.AddressConfirmedAt = earlier(50)
		order.OrderConfirmedAt = earlier(40)
		order.PackedAt = earlier(30)
		order.DispatchedAt = earlier(20)
		order.PaymentCompletedAt = earlier(10)

		checkMonotonic(t, order)
	})
}

func TestDeriveTimeline_CancelledShortCircuit(t *testing.T) {
	// advance partway, then cancel
	repo := newFakeOrderRepo(testOrder(models.PaymentMethodCOD, models.OrderStatusPending))
	svc, _, _ := newTestService(repo)
	ctx := context.Background()
	number := "DKN-20250101-ABCD1234"

	chain := []struct {
		action models.Action
		actor  *models.Employee
	}{
		{models.ActionConfirmAddress, testEmployee(models.RoleCallCenter)},
		{models.ActionConfirmOrder, testEmployee(models.RoleCallCenter)},
		{models.ActionPackOrder, testEmployee(models.RolePacker)},
		{models.ActionAssignDelivery, testEmployee(models.RoleWarehouse)},
		{models.ActionCancel, testEmployee(models.RoleCallCenter)},
	}

	var order *models.Order
	var err error
	for _, step := range chain {
		order, err = svc.ApplyTransition(ctx, number, step.action, step.actor, models.TransitionPayload{})
		require.NoError(t, err)
	}

	steps := DeriveTimeline(order)
	require.Len(t, steps, 2)

	assert.Equal(t, models.StepKeyPlaced, steps[0].Key)
	assert.Equal(t, models.StepCompleted, steps[0].State)

	assert.Equal(t, models.StepKeyCancelled, steps[1].Key)
	assert.Equal(t, models.StepCompleted, steps[1].State)
	assert.Equal(t, order.CancelledAt, steps[1].At)
	assert.Equal(t, order.CancelledBy, steps[1].By)
}

func TestProgress(t *testing.T) {
	order := testOrder(models.PaymentMethodCOD, models.OrderStatusPending)
	assert.Equal(t, 100/7, Progress(order))

	now := time.Now()
	order.AddressConfirmedAt = &now
	order.OrderConfirmedAt = &now
	order.PackedAt = &now
	assert.Equal(t, 400/7, Progress(order))

	cancelled := testOrder(models.PaymentMethodCOD, models.OrderStatusCancelled)
	cancelled.CancelledAt = &now
	assert.Equal(t, 100, Progress(cancelled))
}
