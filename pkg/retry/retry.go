// Package retry re-runs operations that failed for transient reasons.
//
// Only errors marked with [Transient] are retried; anything else returns
// immediately, so a 404 or a bad token never costs a backoff delay.
//
//	err := retry.Do(ctx, retry.Default, func() error {
//	    resp, err := fetch(ctx)
//	    if err != nil {
//	        return retry.Transient(err)
//	    }
//	    ...
//	})
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy controls how often and how patiently an operation is retried.
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try, doubled after each
}

// Default is three attempts starting at 500ms.
var Default = Policy{Attempts: 3, Delay: 500 * time.Millisecond}

// Never runs the operation exactly once.
var Never = Policy{Attempts: 1}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Do calls fn until it succeeds, returns a non-transient error, or the
// policy runs out of attempts. The last error is returned with the
// transient mark removed. Cancelling ctx during a wait returns ctx.Err().
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	var t *transientError
	if errors.As(err, &t) {
		return t.err
	}
	return err
}
