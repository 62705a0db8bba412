package vpn

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// newBreaker builds the per-server circuit breaker. Only transport-level
// failures trip it; a backend_rejected response is a live backend answering,
// so it does not count.
func newBreaker(name string, log logger.Interface) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.IsBackendUnavailable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("backend circuit state changed",
				"backend", name, "from", from.String(), "to", to.String())
		},
	})
}

// execute runs fn through the breaker and translates an open circuit into
// the backend_unavailable taxonomy.
func execute(cb *gobreaker.CircuitBreaker, fn func() ([]byte, error)) ([]byte, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errors.NewBackendUnavailableError("backend circuit open").WithCause(err)
		}
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}
