// Package retry provides simple retry wrappers for functions that return
// an error.
package retry

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// DefaultTimeout is the default timeout for retry operations.
	DefaultTimeout = 30 * time.Second
	// Interval is the time to wait between attempts.
	Interval = 2 * time.Second
	// ErrAbort should be returned when retrying must stop.
	ErrAbort = errors.New("retrying aborted")
)

// Context retries the function until it succeeds, returns ErrAbort or the
// context is cancelled. The first attempt runs immediately.
func Context(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lastErr := f(ctx)
	if lastErr == nil || errors.Is(lastErr, ErrAbort) {
		return lastErr
	}

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	attempt := 1
	for {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), lastErr)
		case <-ticker.C:
			attempt++
			log.Debugf("retrying, attempt %d - last error: %v", attempt, lastErr)
			lastErr = f(ctx)
			if lastErr == nil || errors.Is(lastErr, ErrAbort) {
				return lastErr
			}
		}
	}
}

// Timeout retries the function until it succeeds or the timeout is reached.
func Timeout(ctx context.Context, timeout time.Duration, f func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return Context(ctx, f)
}

// Times retries the function until it succeeds or the given number of
// attempts have been made.
func Times(ctx context.Context, times int, f func(ctx context.Context) error) error {
	lastErr := f(ctx)
	if lastErr == nil || errors.Is(lastErr, ErrAbort) {
		return lastErr
	}

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for attempt := 1; attempt < times; {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), lastErr)
		case <-ticker.C:
			attempt++
			log.Debugf("retrying: attempt %d of %d (previous error: %v)", attempt, times, lastErr)
			lastErr = f(ctx)
			if lastErr == nil || errors.Is(lastErr, ErrAbort) {
				return lastErr
			}
		}
	}

	return lastErr
}
