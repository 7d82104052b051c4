package httputil

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/matzehuels/argmap/pkg/errors"
)

// MaxDelay caps every wait, including Retry-After hints from the server.
const MaxDelay = 30 * time.Second

// RetryableError marks a transient failure such as a dropped connection,
// a 5xx answer or a 429.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Notify is called before each wait with the attempt that just failed
// (starting at 1), the wait and the failure.
type Notify func(attempt int, wait time.Duration, err error)

// Retry runs fn at most attempts times. See [RetryNotify].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return RetryNotify(ctx, attempts, delay, fn, nil)
}

// RetryNotify runs fn until it succeeds, fails with an error not marked
// [Retryable], or attempts run out. Waits start at delay and double. A
// rate limit hint in the error replaces the computed wait. The last
// failure is returned, or ctx.Err() when ctx ends during a wait.
func RetryNotify(ctx context.Context, attempts int, delay time.Duration, fn func() error, notify Notify) error {
	attempts = max(attempts, 1)
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == attempts {
			return err
		}

		wait := backoff(attempt, delay, err)
		if notify != nil {
			notify(attempt, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff is the wait after the given failed attempt.
func backoff(attempt int, base time.Duration, err error) time.Duration {
	var rl *apperrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(time.Duration(rl.RetryAfter)*time.Second, MaxDelay)
	}
	wait := base
	for i := 1; i < attempt && wait < MaxDelay; i++ {
		wait *= 2
	}
	return min(wait, MaxDelay)
}
