package session

import "time"

// Item status texts written to the status column.
const (
	StatusAnalyzing         = "Analyzing..."
	StatusAnalyzed          = "Analyzed"
	StatusFailed            = "Failed"
	StatusInsufficientSpace = "Insufficient disk space"
)

// Outcome is the result of one item. It is empty on progress events.
type Outcome string

const (
	OutcomeAnalyzed          Outcome = "analyzed"
	OutcomeFailed            Outcome = "failed"
	OutcomeInsufficientSpace Outcome = "insufficient_space"
)

// StatusTarget receives live status writes. *registry.Registry satisfies it.
type StatusTarget interface {
	SetStatus(row int, status string, extra ...string) error
}

// StatusEvent is one status update for a row.
type StatusEvent struct {
	Session string
	Row     int
	Text    string
	// Extra is the regions progress ("k/N"). It is empty unless the batch
	// uses the annotation layout.
	Extra string
	// Final marks the last event for the row in this session.
	Final   bool
	Outcome Outcome
	Elapsed time.Duration
}

// Sink receives the outbound events of a session. Implementations must be
// safe for concurrent use; events arrive from the run goroutine as well as
// from the goroutine calling Start or Cancel.
type Sink interface {
	// Lock is called with true when a run starts and false when it ends.
	Lock(locked bool)
	// Select is called with the row about to be analyzed.
	Select(row int)
	Status(ev StatusEvent)
	// DiskSpace reports the additional free space, in gigabytes, that an
	// item needed. It is sent once per session.
	DiskSpace(requiredGB float64)
	State(session string, state State)
}

// NopSink ignores every event. Embed it to implement part of Sink.
type NopSink struct{}

func (NopSink) Lock(bool) {}
func (NopSink) Select(int) {}
func (NopSink) Status(StatusEvent) {}
func (NopSink) DiskSpace(float64) {}
func (NopSink) State(string, State) {}
