package app

import (
	"context"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"time"
)

type ReconcileHandler interface {
	Execute(ctx context.Context) error
}

type ReconcileProcess struct {
	handler  ReconcileHandler
	interval time.Duration
	timeout  time.Duration
}

func NewReconcileProcess(h ReconcileHandler, interval time.Duration) *ReconcileProcess {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ReconcileProcess{handler: h, interval: interval, timeout: 5 * time.Second}
}

// Run reconciles the ledger every interval until ctx is cancelled.
func (p *ReconcileProcess) Run(ctx context.Context) error {
	logger := log.GetLogger()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("reconcile process stopped")
			return ctx.Err()
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, p.timeout)
			// drift is logged by the handler; the loop keeps going
			_ = p.handler.Execute(runCtx)
			cancel()
		}
	}
}
