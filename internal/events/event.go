// Package events records a machine-readable journal of race attempts, one
// JSON object per line, for later analysis of how a race unfolded.
package events

import (
	"time"
)

// EventType identifies what an attempt amounted to.
type EventType string

const (
	// EventWaiting is a successful read with the threshold still ahead.
	EventWaiting EventType = "waiting"
	// EventReadError is a recoverable failure before anything was posted.
	EventReadError EventType = "read_error"
	// EventWon means the created issue carries the threshold number.
	EventWon EventType = "won"
	// EventLost is any terminal outcome other than a win.
	EventLost EventType = "lost"
)

// AttemptEvent is one line of the journal.
type AttemptEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Attempt   int       `json:"attempt"`
	Type      EventType `json:"type"`

	Latest  uint64 `json:"latest,omitempty"`
	ToGo    uint64 `json:"to_go,omitempty"`
	Created uint64 `json:"created,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidEventTypes returns all valid event type values.
func ValidEventTypes() []EventType {
	return []EventType{EventWaiting, EventReadError, EventWon, EventLost}
}

// IsValidEventType checks if the given string is a valid event type.
func IsValidEventType(s string) bool {
	for _, t := range ValidEventTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}
