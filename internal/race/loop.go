package race

import (
	"context"
	"time"

	"github.com/andywolf/issuerace/internal/notify"
)

// DefaultInterval is the time between attempts.
const DefaultInterval = time.Second

// State is the loop's position in its lifecycle.
type State int

const (
	Running State = iota
	DoneSuccess
	DoneFailure
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case DoneSuccess:
		return "done (success)"
	case DoneFailure:
		return "done (failure)"
	default:
		return "unknown"
	}
}

// Attempter performs one attempt per call.
type Attempter interface {
	Attempt(ctx context.Context) Outcome
}

// Ticker is the subset of *time.Ticker the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// Result describes how the loop ended.
type Result struct {
	State    State
	Outcome  Outcome
	Attempts int
}

// Loop calls an Attempter once immediately and then once per interval until
// an outcome is terminal.
type Loop struct {
	attempter Attempter
	interval  time.Duration
	logger    notify.Logger
	newTicker func(time.Duration) Ticker
	observers []Observer
}

// Observer is told about every attempt after it completes.
type Observer func(attempt int, outcome Outcome)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the time between attempts.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets where notices go.
func WithLogger(logger notify.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithTicker replaces the ticker factory (useful for testing).
func WithTicker(fn func(time.Duration) Ticker) LoopOption {
	return func(l *Loop) {
		l.newTicker = fn
	}
}

// WithObserver registers fn to be called after each attempt.
func WithObserver(fn Observer) LoopOption {
	return func(l *Loop) {
		l.observers = append(l.observers, fn)
	}
}

// NewLoop creates a Loop around attempter.
func NewLoop(attempter Attempter, opts ...LoopOption) *Loop {
	l := &Loop{
		attempter: attempter,
		interval:  DefaultInterval,
		logger:    notify.Discard{},
		newTicker: func(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives attempts until one is terminal or ctx is cancelled. The
// returned error is only ever ctx.Err(); a lost race is reported through
// Result.State and Result.Outcome.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	ticker := l.newTicker(l.interval)
	defer ticker.Stop()

	result := Result{State: Running}
	for {
		result.Attempts++
		outcome := l.attempter.Attempt(ctx)
		result.Outcome = outcome
		for _, observe := range l.observers {
			observe(result.Attempts, outcome)
		}

		switch outcome.Kind {
		case KindTerminate:
			if outcome.Err == nil {
				result.State = DoneSuccess
				l.logger.Successf("We did it! Created issue #%d after %d attempts", outcome.Created, result.Attempts)
			} else {
				result.State = DoneFailure
				l.logger.Errorf("Race over after %d attempts: %v", result.Attempts, outcome.Err)
			}
			return result, nil

		case KindContinue:
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if outcome.Err != nil {
				l.logger.Warningf("Attempt %d: %v", result.Attempts, outcome.Err)
			} else {
				l.logger.Debugf("Attempt %d: latest issue #%d, %d to go", result.Attempts, outcome.Latest, outcome.ToGo)
			}
		}

		// A tick that fired while the attempt was running is dropped, so an
		// overrun never causes back-to-back attempts.
		select {
		case <-ticker.C():
		default:
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C():
		}
	}
}

