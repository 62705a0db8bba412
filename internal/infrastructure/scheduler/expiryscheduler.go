package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/merdocx/veilbot/internal/shared/logger"
)

// Sweep is one periodic maintenance task.
type Sweep interface {
	Execute(ctx context.Context) error
}

// sweepJob pairs a sweep with its cadence.
type sweepJob struct {
	name     string
	interval time.Duration
	sweep    Sweep
}

// ExpiryScheduler drives the lifecycle sweeps: hard expiry, the expiry
// warnings and the purchase confirmation catch-up. Each sweep runs in its
// own goroutine so a slow fleet teardown cannot delay the warnings.
type ExpiryScheduler struct {
	jobs     []sweepJob
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewExpiryScheduler(logger logger.Interface) *ExpiryScheduler {
	return &ExpiryScheduler{
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// AddSweep registers a sweep. Must be called before Start.
func (s *ExpiryScheduler) AddSweep(name string, interval time.Duration, sweep Sweep) {
	s.jobs = append(s.jobs, sweepJob{name: name, interval: interval, sweep: sweep})
}

// Start launches one goroutine per registered sweep.
func (s *ExpiryScheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		job := job
		s.logger.Infow("starting sweep", "name", job.name, "interval", job.interval)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(ctx, job)
		}()
	}
}

// Stop stops every sweep and waits for in-flight runs. Safe to call
// multiple times.
func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) run(ctx context.Context, job sweepJob) {
	ticker := time.NewTicker(job.interval)
	defer ticker.Stop()

	s.execute(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *ExpiryScheduler) execute(ctx context.Context, job sweepJob) {
	sweepCtx, cancel := context.WithTimeout(ctx, job.interval)
	defer cancel()

	start := time.Now()
	if err := job.sweep.Execute(sweepCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Errorw("sweep failed", "name", job.name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debugw("sweep finished", "name", job.name, "duration", time.Since(start))
}
