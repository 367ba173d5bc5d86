package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WaitlistFacade exposes the subset of application functionality required by the worker.
type WaitlistFacade interface {
	ReconcileWaitlist(ctx context.Context) (added, removed int, err error)
}

// WaitlistReconciler periodically rebuilds the waitlist from the order collection,
// repairing drift left by partial writes or edits made outside the service.
type WaitlistReconciler struct {
	facade   WaitlistFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewWaitlistReconciler constructs the reconciler. A non-positive interval defaults to one minute.
func NewWaitlistReconciler(facade WaitlistFacade, interval time.Duration, logger *slog.Logger) *WaitlistReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &WaitlistReconciler{
		facade:   facade,
		interval: interval,
		logger:   logger,
	}
}

// Start runs one reconciliation immediately and then one per interval.
// Calling Start on a running reconciler is a no-op.
func (r *WaitlistReconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	// The fx start context ends once start-up completes.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (r *WaitlistReconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *WaitlistReconciler) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reconciliation pass.
func (r *WaitlistReconciler) RunOnce(ctx context.Context) {
	added, removed, err := r.facade.ReconcileWaitlist(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("waitlist reconciliation failed", slog.String("error", err.Error()))
		return
	}
	if added > 0 || removed > 0 {
		r.logger.Warn("waitlist repaired", slog.Int("added", added), slog.Int("removed", removed))
		return
	}
	r.logger.Debug("waitlist consistent")
}
