package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// Retry settings used by the taskorder client.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// MaxDelay caps both the doubled backoff and a server's Retry-After.
	MaxDelay = 30 * time.Second
)

// RetryableError marks a transient failure: the request reached no server,
// or the server answered 429 or 5xx. After, when positive, is the wait the
// server asked for.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has been called attempts times. Waits start at delay
// and double, up to MaxDelay; a RetryableError.After overrides the next wait.
// The last error is returned, or ctx.Err() if ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error

	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(min(wait, MaxDelay)):
		}
		delay = min(delay*2, MaxDelay)
	}
	return err
}

// RetryWithBackoff is Retry with DefaultAttempts and DefaultDelay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultAttempts, DefaultDelay, fn)
}

// RetryAfter reads a Retry-After header given in seconds. HTTP dates and
// missing or malformed values yield zero.
func RetryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
