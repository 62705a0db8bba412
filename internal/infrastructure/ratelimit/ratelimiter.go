package ratelimit

// RateLimiter is a fixed-window per-key limiter. The bundle endpoint keys it
// by subscription token.
type RateLimiter interface {
	// Allow reports whether the key has budget left in the current window
	// and consumes one unit when it does.
	Allow(key string, requestsPerMinute int) (bool, error)
	// Reset clears the key's window.
	Reset(key string) error
}
