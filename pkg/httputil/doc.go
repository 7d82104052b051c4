// Package httputil provides HTTP helpers shared by neighborhood clients.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Callers mark an
// error as transient by wrapping it with [Retryable]:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// A 429 response converted to [errors.RateLimitedError] sets the wait before
// the next attempt. [RetryNotify] additionally reports each wait, which the
// neighborhood client logs at debug level.
//
// [errors.RateLimitedError]: github.com/matzehuels/argmap/pkg/errors.RateLimitedError
package httputil
