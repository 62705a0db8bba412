package ratelimit

import (
	"sync"
	"time"
)

// MemoryRateLimiter is the default in-process limiter: a fixed one-minute
// window per key.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count   int
	startAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	l := &MemoryRateLimiter{
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

func (l *MemoryRateLimiter) Allow(key string, requestsPerMinute int) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.startAt) >= time.Minute {
		l.windows[key] = &window{count: 1, startAt: now}
		return true, nil
	}

	if w.count >= requestsPerMinute {
		return false, nil
	}
	w.count++
	return true, nil
}

func (l *MemoryRateLimiter) Reset(key string) error {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
	return nil
}

// Close stops the background cleanup.
func (l *MemoryRateLimiter) Close() {
	l.once.Do(func() {
		close(l.stop)
	})
}

func (l *MemoryRateLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, w := range l.windows {
				if now.Sub(w.startAt) >= 2*time.Minute {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
