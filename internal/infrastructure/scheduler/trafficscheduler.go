package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/merdocx/veilbot/internal/shared/logger"
)

// TrafficPoller collects usage counters from the fleet.
type TrafficPoller interface {
	Execute(ctx context.Context) error
}

// JobFunc adapts a plain function to the scheduler job interfaces.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Execute(ctx context.Context) error { return f(ctx) }

// TrafficScheduler runs the traffic poll on a fixed interval. The first poll
// fires immediately so a restart does not leave a gap in enforcement.
type TrafficScheduler struct {
	poller   TrafficPoller
	interval time.Duration
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewTrafficScheduler(
	poller TrafficPoller,
	interval time.Duration,
	logger logger.Interface,
) *TrafficScheduler {
	return &TrafficScheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the poll loop and returns immediately.
func (s *TrafficScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting traffic scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop stops the scheduler and waits for the running poll to finish. Safe to
// call multiple times.
func (s *TrafficScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("traffic scheduler stopped")
	})
}

func (s *TrafficScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *TrafficScheduler) poll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	start := time.Now()
	if err := s.poller.Execute(pollCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Errorw("traffic poll failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debugw("traffic poll finished", "duration", time.Since(start))
}
