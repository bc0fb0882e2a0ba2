// Package retryx retries read-modify-write sequences that lose an
// optimistic-concurrency race. Every version-guarded update path goes
// through Do with the same policy instead of hand-rolled loops.
package retryx

import (
	"errors"
	"time"
)

// ErrConflict is reported by an update whose version guard matched no rows.
var ErrConflict = errors.New("optimistic concurrency conflict")

// Do runs fn up to attempts times, sleeping backoff between tries, and
// retries only on ErrConflict. Any other error aborts immediately.
func Do(attempts int, backoff time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrConflict) {
			return err
		}
		if i < attempts-1 {
			time.Sleep(backoff)
		}
	}
	return err
}
