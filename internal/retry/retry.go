package retry

import (
	"context"
	"time"
)

// DoWithRetry runs fn up to attempts times, doubling the delay between
// tries. The last error is returned when every attempt fails; a canceled
// context ends the loop early with ctx.Err().
func DoWithRetry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	delay := baseDelay

	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = fn(); err == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
