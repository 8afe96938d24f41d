// internal/app/system/workers/resync.go
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Hydrator reloads content from the backing store.
type Hydrator interface {
	Hydrate(ctx context.Context) error
}

// Resync periodically re-hydrates a content store so an instance that missed
// a change broadcast converges on its own.
type Resync struct {
	store    Hydrator
	log      *zap.Logger
	schedule string
	timeout  time.Duration

	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewResync creates a resync worker.
//
// Parameters:
//   - store: the content store to hydrate
//   - logger: zap logger for logging
//   - schedule: cron schedule (e.g., "@every 5m")
//   - timeout: deadline for a single hydration
func NewResync(store Hydrator, logger *zap.Logger, schedule string, timeout time.Duration) (*Resync, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Resync{
		store:    store,
		log:      logger,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(),
	}
	if _, err := w.cron.AddFunc(schedule, w.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid resync schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start begins running on schedule.
func (w *Resync) Start() {
	w.cron.Start()
	w.log.Info("content resync worker started",
		zap.String("schedule", w.schedule),
		zap.Duration("timeout", w.timeout))
}

// Stop halts the schedule and waits for a running job to finish or ctx to
// expire.
func (w *Resync) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		w.log.Warn("content resync worker stop timed out")
	}
	w.log.Info("content resync worker stopped")
}

// RunOnce performs one hydration. Overlapping runs are skipped.
func (w *Resync) RunOnce() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.log.Debug("content resync already running, skipping")
		return
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.store.Hydrate(ctx); err != nil {
		w.log.Error("content resync failed", zap.Error(err))
		return
	}
	w.log.Debug("content resync complete", zap.Duration("took", time.Since(start)))
}
