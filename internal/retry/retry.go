// Package retry runs an operation again with exponential backoff.
package retry

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// Backoff retries a function with exponential delay between attempts.
type Backoff struct {
	maxRetries int
	delay      time.Duration
	multiplier float64
}

// New returns a Backoff that makes up to maxRetries extra attempts,
// waiting delay, then delay*2, delay*4 and so on.
func New(maxRetries int, delay time.Duration) *Backoff {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Backoff{
		maxRetries: maxRetries,
		delay:      delay,
		multiplier: 2.0,
	}
}

// Execute runs fn until it succeeds, returns a non-retryable error, the
// retries run out or ctx is done.
func (b *Backoff) Execute(ctx context.Context, fn func() error) error {
	return b.ExecuteIf(ctx, fn, Retryable)
}

// ExecuteIf is Execute with retryable deciding which errors get another
// attempt.
func (b *Backoff) ExecuteIf(ctx context.Context, fn func() error, retryable func(error) bool) error {
	var lastErr error
	delay := b.delay

	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == b.maxRetries || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * b.multiplier)
	}

	return lastErr
}

// Retryable reports whether err is worth another attempt. Context errors
// and 4xx responses other than 408 and 429 are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se StatusError
	if errors.As(err, &se) {
		code := se.StatusCode()
		if code == http.StatusTooManyRequests || code == http.StatusRequestTimeout {
			return true
		}
		return code < 400 || code >= 500
	}

	return true
}

// Rejected reports whether err is a response saying the server did not do
// the work: 429 or 5xx. Transport errors are not, since the request may
// have been processed before the connection failed. Use it for calls that
// must not run twice.
func Rejected(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	code := se.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}
