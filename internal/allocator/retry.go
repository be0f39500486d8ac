package allocator

import (
	"context"
	"errors"
)

// Attempt describes a Complete attempt that did not produce a full
// allocation.
type Attempt struct {
	Number int
	Idle   int   // idle workers; zero when Err is set
	Err    error // set when the round aborted
}

// Observer receives retry loop events. Calls happen synchronously on the
// allocating goroutine.
type Observer interface {
	AttemptFailed(a Attempt)
	Completed(r *Round)
}

type nopObserver struct{}

func (nopObserver) AttemptFailed(Attempt) {}
func (nopObserver) Completed(*Round)      {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) AttemptFailed(a Attempt) {
	for _, obs := range o {
		obs.AttemptFailed(a)
	}
}

func (o Observers) Completed(r *Round) {
	for _, obs := range o {
		obs.Completed(r)
	}
}

// Complete runs shuffled rounds until one leaves no worker idle. A round
// aborted by a NoPairError counts as a failed attempt. Exclusion history
// keeps accumulating across attempts, steering later attempts away from
// recently tried pairings.
//
// Without MaxAttempts the loop only ends on success or when ctx is done;
// a roster whose jobs can never cover every worker never succeeds.
func (a *Allocator) Complete(ctx context.Context) (*Round, error) {
	var last Attempt
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := a.round(true)
		switch {
		case err != nil:
			var npe *NoPairError
			if !errors.As(err, &npe) {
				return nil, err
			}
			last = Attempt{Number: attempt, Err: err}
			a.logger.Warn("round aborted, trying again", "attempt", attempt, "error", err)
		case r.IdleCount() == 0:
			r.Attempt = attempt
			a.logger.Info("allocation complete", "attempts", attempt, "quota", r.Quota)
			a.config.Observer.Completed(r)
			return r, nil
		default:
			last = Attempt{Number: attempt, Idle: r.IdleCount()}
			a.logger.Warn("workers left idle, trying again", "attempt", attempt, "idle", r.IdleCount())
		}
		a.config.Observer.AttemptFailed(last)

		if a.config.MaxAttempts > 0 && attempt >= a.config.MaxAttempts {
			return nil, &AttemptsExhaustedError{Attempts: attempt, Idle: last.Idle, Err: last.Err}
		}
	}
}
