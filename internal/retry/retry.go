// Package retry provides a bounded retry loop with pluggable backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry strategy configuration.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// Delay returns the wait after the given failed attempt (1-based).
	Delay func(attempt int, err error) time.Duration
	// Sleep blocks for d or until ctx is done. Defaults to SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait, if set.
	OnRetry func(attempt int, err error, delay time.Duration)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so Do returns it immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Constant waits d after every failure.
func Constant(d time.Duration) func(int, error) time.Duration {
	return func(int, error) time.Duration { return d }
}

// Linear waits base*attempt: base after the first failure, 2*base after the
// second, and so on.
func Linear(base time.Duration) func(int, error) time.Duration {
	return func(attempt int, _ error) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base * time.Duration(attempt)
	}
}

// SleepContext waits for d, returning early with ctx.Err() on cancellation.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do calls fn until it succeeds, returns a Permanent error, the context ends or
// MaxAttempts is reached. The last error is returned wrapped.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts <= 0 {
		return zero, errors.New("MaxAttempts must be greater than 0")
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	delay := cfg.Delay
	if delay == nil {
		delay = Constant(0)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var p *permanentError
		if errors.As(err, &p) {
			return zero, p.err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		d := delay(attempt, err)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, d)
		}
		if err := sleep(ctx, d); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
