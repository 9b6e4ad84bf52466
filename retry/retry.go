package retry

import (
	"context"
	"time"

	ai "github.com/didactlabs/didact"
)

// effectiveDelay returns the delay to use, honoring the server's
// Retry-After hint when it is larger than the configured backoff.
func effectiveDelay(configuredDelay time.Duration, err error) time.Duration {
	serverDelay := ai.RetryAfterOf(err)
	if serverDelay > configuredDelay {
		return serverDelay
	}
	return configuredDelay
}

// Do executes the given function with retry logic.
// Only transient errors are retried; permanent and user-input errors are
// returned immediately. Context cancellation is respected during backoff
// waits. Returns the result on success, or the last error if all attempts
// fail.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !ai.IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			delay := effectiveDelay(cfg.Delay(attempt), err)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
