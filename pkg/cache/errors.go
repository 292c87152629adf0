package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure (timeouts, 5xx responses) that
// [Retry] may attempt again.
type RetryableError struct{ Err error }

// Retryable wraps err; Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff configures [Retry].
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultBackoff is three attempts starting at one second.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The delay doubles after each retryable failure.
func Retry(ctx context.Context, b Backoff, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		if lastErr = err; !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
	return lastErr
}

// RetryWithBackoff is Retry with [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultBackoff, fn)
}
