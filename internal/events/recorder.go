package events

import (
	"sync"

	"github.com/vk/vesselbatch/internal/session"
)

// Recorder keeps every event in memory. It backs the control server's
// session view and is handy in tests.
type Recorder struct {
	mu       sync.Mutex
	locked   bool
	selected int
	statuses []session.StatusEvent
	disk     []float64
	states   []session.State
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{selected: -1}
}

func (r *Recorder) Lock(locked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = locked
}

func (r *Recorder) Select(row int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = row
}

func (r *Recorder) Status(ev session.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, ev)
}

func (r *Recorder) DiskSpace(requiredGB float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disk = append(r.disk, requiredGB)
}

func (r *Recorder) State(_ string, s session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

// Locked reports whether controls are currently locked.
func (r *Recorder) Locked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked
}

// Selected returns the last selected row, or -1.
func (r *Recorder) Selected() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Statuses returns a copy of every status event.
func (r *Recorder) Statuses() []session.StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.StatusEvent(nil), r.statuses...)
}

// DiskWarnings returns the disk-space warnings received so far.
func (r *Recorder) DiskWarnings() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.disk...)
}

// States returns every state transition in order.
func (r *Recorder) States() []session.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.State(nil), r.states...)
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = false
	r.selected = -1
	r.statuses = nil
	r.disk = nil
	r.states = nil
}
