package retry

import (
	"context"
	"time"
)

// Policy is a bounded retry policy with a fixed delay between attempts.
// The provider's staleness window is short and constant, so the delay is
// deliberately flat rather than exponential.
type Policy struct {
	MaxAttempts int           `json:"max_attempts"`
	Delay       time.Duration `json:"delay"`
}

// DefaultPolicy returns the policy used for provider reads.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Delay:       time.Second,
	}
}

// Do executes the operation until it succeeds or attempts are exhausted,
// waiting the fixed delay between attempts. The delay is skipped after
// the final attempt. Context cancellation aborts the wait.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	return lastErr
}

// DoWithPredicate is Do with a predicate deciding whether an error is
// worth another attempt; non-retryable errors fail immediately.
func (p Policy) DoWithPredicate(ctx context.Context, operation func() error, isRetryable func(error) bool) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	return lastErr
}
