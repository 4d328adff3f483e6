package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff holds retry settings.
type Backoff struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Option configures a Backoff.
type Option func(*Backoff)

// DefaultBackoff returns the settings used when no options are given.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:     5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Do runs op until it succeeds, returns a Permanent error, the attempts are
// used up, or ctx is done.
func Do(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	b := DefaultBackoff()
	for _, opt := range opts {
		opt(&b)
	}
	if b.Attempts < 1 {
		b.Attempts = 1
	}

	wait := b.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped after %d attempts: %w", attempt-1, err)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if attempt == b.Attempts {
			break
		}

		if b.OnRetry != nil {
			b.OnRetry(attempt, lastErr, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("stopped after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}

		wait = time.Duration(float64(wait) * b.Multiplier)
		if b.MaxDelay > 0 && wait > b.MaxDelay {
			wait = b.MaxDelay
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", b.Attempts, lastErr)
}

// WithAttempts sets the total number of attempts, including the first.
func WithAttempts(n int) Option {
	return func(b *Backoff) {
		b.Attempts = n
	}
}

// WithInitialDelay sets the wait after the first failure.
func WithInitialDelay(d time.Duration) Option {
	return func(b *Backoff) {
		b.InitialDelay = d
	}
}

// WithMaxDelay caps the wait between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(b *Backoff) {
		b.MaxDelay = d
	}
}

// WithMultiplier sets the growth factor of the wait.
func WithMultiplier(m float64) Option {
	return func(b *Backoff) {
		b.Multiplier = m
	}
}

// WithOnRetry registers a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(b *Backoff) {
		b.OnRetry = fn
	}
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
