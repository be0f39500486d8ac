package allocator

import (
	"errors"
	"fmt"
)

// ErrEmptyRoster is returned when a round is requested without any jobs.
var ErrEmptyRoster = errors.New("roster has no jobs")

// NoPairError is returned when a pair job cannot be staffed. It aborts the
// current round; the retry loop starts a fresh one.
type NoPairError struct {
	Job string
}

func (e *NoPairError) Error() string {
	return fmt.Sprintf("no pair found for job %s", e.Job)
}

// AttemptsExhaustedError is returned by Complete when a retry cap is
// configured and every attempt left idle workers or aborted.
type AttemptsExhaustedError struct {
	Attempts int
	Idle     int   // idle workers after the last attempt that finished
	Err      error // error of the last attempt, if it aborted
}

func (e *AttemptsExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no complete allocation after %d attempts (last: %v)", e.Attempts, e.Err)
	}
	return fmt.Sprintf("no complete allocation after %d attempts (%d idle)", e.Attempts, e.Idle)
}

func (e *AttemptsExhaustedError) Unwrap() error {
	return e.Err
}
