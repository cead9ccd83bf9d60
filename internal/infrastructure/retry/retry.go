// Package retry provides the bounded-retry executor every connector
// operation runs through. It is transport-agnostic: it wraps any unit of
// work, not just HTTP calls.
package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Defaults applied when Options fields are unset.
const (
	// DefaultMaxAttempts is the total number of attempts, including the first
	DefaultMaxAttempts = 3
	// DefaultInitialDelay is the base backoff delay
	DefaultInitialDelay = time.Second
)

// Options configures one retried operation.
type Options struct {
	// MaxAttempts is the total attempt budget (first try included)
	MaxAttempts int
	// InitialDelay is the base delay; attempt n sleeps InitialDelay*n
	InitialDelay time.Duration
	// Logger receives a warn entry per failed attempt; nil disables logging
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do stops immediately instead of retrying.
// Authentication failures use this: a failed token refresh is a distinct
// failure class and is not subject to backoff.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs op up to MaxAttempts times, sleeping InitialDelay*attempt between
// failures (linear backoff). The last error is propagated once the budget
// is exhausted. Context cancellation and Permanent-marked errors abort
// immediately.
func Do[T any](ctx context.Context, name string, opts Options, op func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsPermanent(err) || ctx.Err() != nil {
			return zero, err
		}

		opts.Logger.Warn("Operation attempt failed",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", opts.MaxAttempts),
			zap.Error(err),
		)

		if attempt == opts.MaxAttempts {
			break
		}

		select {
		case <-time.After(opts.InitialDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
