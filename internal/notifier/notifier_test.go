package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []models.Notification
	failures int
}

func (f *fakeSender) Send(ctx context.Context, notification models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, notification)
	return nil
}

func (f *fakeSender) delivered() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification{}, f.sent...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func testOrder() *models.Order {
	return &models.Order{
		Number:     "DKN-20250101-ABCD1234",
		CustomerID: 42,
	}
}

func TestMessageFor_CoversEveryStatus(t *testing.T) {
	statuses := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusAddressConfirmed,
		models.OrderStatusOrderConfirmed, models.OrderStatusPacked,
		models.OrderStatusOutForDelivery, models.OrderStatusCashCollected,
		models.OrderStatusDelivered, models.OrderStatusCompleted,
		models.OrderStatusCancelled, models.OrderStatusRescheduled,
		models.OrderStatusFailedDelivery,
	}

	for _, status := range statuses {
		msg, ok := MessageFor(status)
		require.True(t, ok, string(status))
		assert.NotEmpty(t, msg.Title, string(status))
		assert.NotEmpty(t, msg.Message, string(status))
		assert.NotEmpty(t, msg.Priority, string(status))
	}

	_, ok := MessageFor(models.OrderStatus("teleported"))
	assert.False(t, ok)
}

func TestNotifier_DeliversEnqueuedNotification(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := New(sender, zap.NewNop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.Notify(testOrder(), models.OrderStatusOutForDelivery)

	waitFor(t, func() bool { return len(sender.delivered()) == 1 })

	got := sender.delivered()[0]
	assert.Equal(t, "DKN-20250101-ABCD1234", got.OrderNumber)
	assert.Equal(t, uint64(42), got.CustomerID)
	assert.Equal(t, models.OrderStatusOutForDelivery, got.Status)
	assert.Equal(t, "Out for delivery", got.Title)
	assert.NotEmpty(t, got.ID)
}

func TestNotifier_RetriesTransientFailure(t *testing.T) {
	sender := &fakeSender{failures: 2}
	dispatcher := New(sender, zap.NewNop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.Notify(testOrder(), models.OrderStatusDelivered)

	// two failures, third attempt succeeds
	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
}

func TestNotifier_DropsAfterRetryBudget(t *testing.T) {
	sender := &fakeSender{failures: maxAttempts}
	dispatcher := New(sender, zap.NewNop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.Notify(testOrder(), models.OrderStatusCancelled)
	dispatcher.Notify(testOrder(), models.OrderStatusPending)

	// the first notification exhausts its budget and is dropped, the
	// second still goes through
	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
	assert.Equal(t, models.OrderStatusPending, sender.delivered()[0].Status)
}

func TestNotifier_FullQueueDropsWithoutBlocking(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := New(sender, zap.NewNop(), 1)

	// Run is not started, so the queue never drains
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			dispatcher.Notify(testOrder(), models.OrderStatusPending)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
}

func TestNotifier_UnknownStatusIsIgnored(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := New(sender, zap.NewNop(), 1)

	dispatcher.Notify(testOrder(), models.OrderStatus("teleported"))

	select {
	case got := <-dispatcher.queue:
		t.Fatalf("unexpected notification enqueued: %+v", got)
	default:
	}
}
