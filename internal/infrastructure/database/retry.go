package database

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	lockRetryBase     = 100 * time.Millisecond
	lockRetryAttempts = 3
)

// WithLockRetry retries fn when SQLite reports a locked database. Backoff is
// exponential from 100ms, three attempts total, then the last error is
// returned to the caller for translation into the store-locked taxonomy.
func WithLockRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(lockRetryAttempts-1, retry.NewExponential(lockRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if IsLockError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// IsLockError reports whether err is SQLite's transient lock contention.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
