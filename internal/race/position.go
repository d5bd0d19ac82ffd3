package race

// Position is where the threshold stands relative to the next issue number.
type Position int

const (
	// Ahead: the threshold is still in the future, keep waiting.
	Ahead Position = iota
	// Now: the next issue created will receive the threshold number.
	Now
	// Passed: the threshold was already handed out.
	Passed
)

func (p Position) String() string {
	switch p {
	case Ahead:
		return "ahead"
	case Now:
		return "now"
	case Passed:
		return "passed"
	default:
		return "unknown"
	}
}

// Compare places threshold against latest+1. It relies on the listing being
// strictly newest-first; a stale read can only make us wait a tick longer or
// post into a number that is already gone, and both resolve through the
// normal outcomes.
func Compare(threshold, latest uint64) Position {
	// Written against latest rather than latest+1 so it cannot overflow.
	switch {
	case threshold <= latest:
		return Passed
	case threshold-latest == 1:
		return Now
	default:
		return Ahead
	}
}

// Remaining is how many issues must still be created by others before it is
// our turn. Zero once the threshold is next or passed.
func Remaining(threshold, latest uint64) uint64 {
	if Compare(threshold, latest) != Ahead {
		return 0
	}
	return threshold - latest - 1
}
