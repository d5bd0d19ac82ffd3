package events

import (
	"time"

	"github.com/andywolf/issuerace/internal/race"
)

// FromOutcome converts the outcome of attempt number n into a journal entry.
func FromOutcome(runID string, n int, o race.Outcome, at time.Time) AttemptEvent {
	e := AttemptEvent{
		Timestamp: at.UTC(),
		RunID:     runID,
		Attempt:   n,
		Latest:    o.Latest,
		ToGo:      o.ToGo,
		Created:   o.Created,
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}

	switch {
	case o.Won():
		e.Type = EventWon
	case o.Terminal():
		e.Type = EventLost
	case o.Err != nil:
		e.Type = EventReadError
	default:
		e.Type = EventWaiting
	}
	return e
}

// Recorder returns a race.Observer that appends every attempt to sink.
// Write failures are passed to onError and never stop the race.
func Recorder(sink *FileSink, runID string, onError func(error)) race.Observer {
	return func(n int, o race.Outcome) {
		if err := sink.WriteOne(FromOutcome(runID, n, o, time.Now())); err != nil && onError != nil {
			onError(err)
		}
	}
}
