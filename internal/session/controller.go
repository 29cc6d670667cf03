package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/mode"
	"github.com/vk/vesselbatch/internal/registry"
)

var (
	// ErrSessionActive is returned by Start while another session is running
	// or cancelling.
	ErrSessionActive = errors.New("an analysis session is already active")
	// ErrNotRunning is returned by Cancel when there is nothing to cancel.
	ErrNotRunning = errors.New("no running analysis session")
)

// Options carries the per-run settings that are not part of the snapshot.
type Options struct {
	Mode       mode.Mode
	Catalog    *catalog.Catalog
	ResultsDir string
	Graph      analysis.GraphOptions
}

// Controller starts and cancels analysis sessions. It never blocks on the
// analysis itself.
type Controller struct {
	analyzer analysis.Analyzer
	target   StatusTarget
	sink     Sink

	mu      sync.Mutex
	current *Session
}

// NewController creates a controller. A nil sink discards events.
func NewController(analyzer analysis.Analyzer, target StatusTarget, sink Sink) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{analyzer: analyzer, target: target, sink: sink}
}

// Start launches a session over a copy of entries and returns immediately.
// Cancelling ctx has the same effect as Cancel: the item in progress still
// completes.
func (c *Controller) Start(ctx context.Context, entries []registry.Entry, opts Options) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.current.State().Active() {
		return nil, ErrSessionActive
	}

	s := &Session{
		id:      uuid.NewString(),
		ctrl:    c,
		entries: append([]registry.Entry(nil), entries...),
		opts:    opts,
		schema:  opts.Mode.Schema(),
		done:    make(chan struct{}),
	}
	s.cursor.Store(-1)
	s.state.Store(int32(Running))
	s.summary = Summary{ID: s.id, Total: len(s.entries), Started: time.Now()}
	c.current = s

	ctx = ctxlog.With(ctx, "session", s.id)
	ctxlog.FromContext(ctx).Info("Analysis session started.", "items", len(s.entries), "mode", opts.Mode.String())

	c.sink.Lock(true)
	c.sink.State(s.id, Running)

	go s.run(ctx)
	return s, nil
}

// Cancel asks the running session to stop before its next item.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()

	if s == nil || !s.requestCancel() {
		return ErrNotRunning
	}
	return nil
}

// Current returns the most recent session, or nil if none was started.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Active reports whether a session is running or cancelling.
func (c *Controller) Active() bool {
	s := c.Current()
	return s != nil && s.State().Active()
}
