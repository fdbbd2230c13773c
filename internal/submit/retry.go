package submit

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to attempts times, sleeping delay between tries.
// It stops early when ctx is done and returns the last error wrapped
// with the attempt count on terminal failure.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("after %d attempt(s): %w", i, ctx.Err())
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempt(s): %w", attempts, lastErr)
}
