// Package httputil provides HTTP helpers shared by the API client.
//
// [Retry] wraps an operation with retry for transient failures. Callers mark
// an error as transient by wrapping it in [RetryableError]; anything else is
// returned immediately:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := http.DefaultClient.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// The delay doubles after every failed attempt up to [MaxDelay]. A server's
// Retry-After ([RetryAfter]) set on the error replaces the next delay.
// Cancelling ctx stops waiting between attempts and returns ctx.Err().
package httputil
