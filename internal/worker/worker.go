package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type OrderService interface {
	// NotifyUnreconciledCash reports delivered COD orders with cash still
	// awaiting accounts confirmation
	NotifyUnreconciledCash(ctx context.Context) error
}

// ReconciliationWorker periodically surfaces collected cash that accounts
// has not yet confirmed. Advisory: it never mutates order state.
type ReconciliationWorker struct {
	svc      OrderService
	interval time.Duration
	logger   *zap.Logger
}

// NewReconciliationWorker creates new reconciliation worker
func NewReconciliationWorker(svc OrderService, interval time.Duration, logger *zap.Logger) *ReconciliationWorker {
	return &ReconciliationWorker{
		svc:      svc,
		interval: interval,
		logger:   logger,
	}
}

// Run checks for unreconciled cash until ctx is cancelled.
func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.logger.Debug("reconciliation worker is done")
			return
		case <-ticker.C:
			if err := rw.svc.NotifyUnreconciledCash(ctx); err != nil {
				rw.logger.Error("reconciliation check failed", zap.Error(err))
			}
		}
	}
}
