package session

import "fmt"

// State is the lifecycle state of a Session.
type State int32

const (
	Idle State = iota
	Running
	Cancelling
	Cancelled
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cancelling:
		return "cancelling"
	case Cancelled:
		return "cancelled"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == Cancelled || s == Completed || s == Failed
}

// Active reports whether the session still owns the batch.
func (s State) Active() bool {
	return s == Running || s == Cancelling
}
