// Package race decides, tick by tick, whether to wait, to post the issue,
// or to stop, and runs the loop that drives those decisions.
package race

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyListing is a soft error: the listing returned no issues at all.
	ErrEmptyListing = errors.New("GitHub returned 0 issues")

	// ErrMissedWindow means the threshold number was assigned before we could post.
	ErrMissedWindow = errors.New("missed the window")

	// ErrPostFailed means the create request failed or its result could not be confirmed.
	ErrPostFailed = errors.New("failed to post the issue")

	// ErrRaceLost means the post succeeded but another issue took the threshold first.
	ErrRaceLost = errors.New("race lost despite successful post")
)

// Kind tells the loop whether to keep polling.
type Kind int

const (
	// KindContinue keeps the loop running, with or without a soft error.
	KindContinue Kind = iota
	// KindTerminate stops the loop; a nil error means the race was won.
	KindTerminate
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of one attempt.
//
//	Continue(nil)   not yet time
//	Continue(err)   recoverable read-side problem
//	Terminate(nil)  the created issue got the threshold number
//	Terminate(err)  the race is over and was not won
type Outcome struct {
	Kind Kind
	Err  error

	// Latest is the newest issue number observed, zero if the read failed.
	Latest uint64
	// ToGo is how many issues others must still open before it is our turn.
	ToGo uint64
	// Created is the number GitHub assigned to our issue, zero if none was created.
	Created uint64
}

// Continue builds a non-terminal outcome. err is nil when nothing went wrong.
func Continue(err error) Outcome {
	return Outcome{Kind: KindContinue, Err: err}
}

// Terminate builds a terminal outcome. err is nil on success.
func Terminate(err error) Outcome {
	return Outcome{Kind: KindTerminate, Err: err}
}

// Terminal reports whether the loop must stop.
func (o Outcome) Terminal() bool {
	return o.Kind == KindTerminate
}

// Won reports whether this outcome is the successful end of the race.
func (o Outcome) Won() bool {
	return o.Kind == KindTerminate && o.Err == nil
}

func (o Outcome) withLatest(n uint64) Outcome {
	o.Latest = n
	return o
}

func (o Outcome) withCreated(n uint64) Outcome {
	o.Created = n
	return o
}
