package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/mode"
	"github.com/vk/vesselbatch/internal/registry"
)

// Summary describes a session's result. It is final once Done is closed.
type Summary struct {
	ID                string
	State             State
	Total             int
	Analyzed          int
	Failed            int
	InsufficientSpace int
	// Skipped counts items never started because the session was cancelled
	// or failed.
	Skipped  int
	Started  time.Time
	Finished time.Time
	// Err is set when the session ended in Failed.
	Err error
}

// Session is one run of the analysis over a snapshot of the batch.
type Session struct {
	id      string
	ctrl    *Controller
	entries []registry.Entry
	opts    Options
	schema  mode.Schema

	state  atomic.Int32
	cancel atomic.Bool
	cursor atomic.Int64
	done   chan struct{}

	// stateMu orders state changes with their State events.
	stateMu sync.Mutex

	mu          sync.Mutex
	summary     Summary
	spaceWarned bool
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return State(s.state.Load()) }

// Cursor returns the snapshot position of the item being analyzed, or -1
// before the first item. It never decreases.
func (s *Session) Cursor() int { return int(s.cursor.Load()) }

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session ends or ctx is done.
func (s *Session) Wait(ctx context.Context) (Summary, error) {
	select {
	case <-s.done:
		return s.Summary(), nil
	case <-ctx.Done():
		return s.Summary(), ctx.Err()
	}
}

// Summary returns a copy of the current summary.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.summary
	out.State = s.State()
	return out
}

func (s *Session) run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	go func() {
		select {
		case <-ctx.Done():
			if s.requestCancel() {
				logger.Info("Context cancelled, stopping after the current item.")
			}
		case <-s.done:
		}
	}()

	if dir := s.opts.ResultsDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.finish(ctx, fmt.Errorf("cannot create results directory: %w", err))
			return
		}
	}

	for i, entry := range s.entries {
		// Breakpoint: cancellation is only observed between items.
		if ctx.Err() != nil {
			s.requestCancel()
		}
		if s.cancel.Load() {
			break
		}
		s.cursor.Store(int64(i))
		s.ctrl.sink.Select(entry.Row)

		if err := s.analyze(ctx, entry); err != nil {
			logger.Error("Analysis aborted.", "row", entry.Row, "error", err)
			s.finish(ctx, err)
			return
		}
	}
	s.finish(ctx, nil)
}

// analyze runs one item and writes its final status. Only a panic in the
// analyzer is returned as an error; ordinary failures stay with the item.
func (s *Session) analyze(ctx context.Context, entry registry.Entry) (err error) {
	logger := ctxlog.FromContext(ctx).With("row", entry.Row)
	rep := &itemReporter{ctx: ctx, session: s, row: entry.Row, started: time.Now(), status: StatusAnalyzing}
	rep.publish()

	job := analysis.Job{
		Row:        entry.Row,
		Primary:    entry.Column1,
		Associated: entry.Column2,
		Mode:       s.opts.Mode,
		Catalog:    s.opts.Catalog,
		ResultsDir: s.opts.ResultsDir,
		Graph:      s.opts.Graph,
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer panicked on row %d: %v", entry.Row, r)
			rep.finish(StatusFailed, OutcomeFailed)
			s.count(OutcomeFailed)
		}
	}()

	logger.Debug("Analyzing item.", "primary", entry.Column1, "associated", entry.Column2)
	// The item runs to completion even if the session's context is cancelled.
	aerr := s.ctrl.analyzer.Analyze(context.WithoutCancel(ctx), job, rep)

	var spaceErr *analysis.InsufficientSpaceError
	switch {
	case aerr == nil:
		rep.finish(StatusAnalyzed, OutcomeAnalyzed)
		s.count(OutcomeAnalyzed)
	case errors.As(aerr, &spaceErr):
		logger.Warn("Item skipped for lack of disk space.", "required_gb", spaceErr.RequiredGB, "path", spaceErr.Path)
		rep.finish(StatusInsufficientSpace, OutcomeInsufficientSpace)
		s.count(OutcomeInsufficientSpace)
		s.warnSpace(spaceErr.RequiredGB)
	default:
		logger.Warn("Item failed.", "error", aerr)
		rep.finish(StatusFailed, OutcomeFailed)
		s.count(OutcomeFailed)
	}
	return nil
}

func (s *Session) count(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch o {
	case OutcomeAnalyzed:
		s.summary.Analyzed++
	case OutcomeInsufficientSpace:
		s.summary.InsufficientSpace++
	default:
		s.summary.Failed++
	}
}

func (s *Session) warnSpace(requiredGB float64) {
	s.mu.Lock()
	first := !s.spaceWarned
	s.spaceWarned = true
	s.mu.Unlock()

	if first {
		s.ctrl.sink.DiskSpace(requiredGB)
	}
}

// requestCancel moves a running session to Cancelling. It reports false if
// the session was not running.
func (s *Session) requestCancel() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if !s.state.CompareAndSwap(int32(Running), int32(Cancelling)) {
		return false
	}
	s.cancel.Store(true)
	s.ctrl.sink.State(s.id, Cancelling)
	return true
}

// finish moves the session to its terminal state. A nil err yields Completed,
// or Cancelled when cancellation was requested.
func (s *Session) finish(ctx context.Context, err error) {
	s.stateMu.Lock()
	var final State
	for {
		cur := State(s.state.Load())
		switch {
		case err != nil:
			final = Failed
		case cur == Cancelling || s.cancel.Load():
			final = Cancelled
		default:
			final = Completed
		}
		if s.state.CompareAndSwap(int32(cur), int32(final)) {
			break
		}
	}
	s.ctrl.sink.State(s.id, final)
	s.stateMu.Unlock()

	s.mu.Lock()
	s.summary.Finished = time.Now()
	s.summary.Err = err
	s.summary.Skipped = s.summary.Total - s.summary.Analyzed - s.summary.Failed - s.summary.InsufficientSpace
	sum := s.summary
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Info("Analysis session finished.",
		"state", final.String(),
		"analyzed", sum.Analyzed,
		"failed", sum.Failed+sum.InsufficientSpace,
		"skipped", sum.Skipped,
		"duration", sum.Finished.Sub(sum.Started),
	)

	s.ctrl.sink.Lock(false)
	close(s.done)
}

// itemReporter relays analyzer progress for one row. Nothing is written for
// the row once its final status is out.
type itemReporter struct {
	ctx     context.Context
	session *Session
	row     int
	started time.Time

	mu      sync.Mutex
	status  string
	regions int
	closed  bool
}

func (r *itemReporter) Status(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.status = text
	r.publishLocked(false, "")
}

func (r *itemReporter) Regions(done int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.regions = done
	r.publishLocked(false, "")
}

func (r *itemReporter) publish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishLocked(false, "")
}

func (r *itemReporter) finish(text string, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.status = text
	r.publishLocked(true, outcome)
	r.closed = true
}

func (r *itemReporter) publishLocked(final bool, outcome Outcome) {
	s := r.session
	ev := StatusEvent{
		Session: s.id,
		Row:     r.row,
		Text:    r.status,
		Final:   final,
		Outcome: outcome,
	}
	if final {
		ev.Elapsed = time.Since(r.started)
	}

	var extra []string
	if s.schema.HasProgressColumn() {
		ev.Extra = r.progress()
		extra = []string{ev.Extra}
	}

	if err := s.ctrl.target.SetStatus(r.row, ev.Text, extra...); err != nil {
		// The row was removed from the live batch after the snapshot.
		ctxlog.FromContext(r.ctx).Debug("Dropped status for missing row.", "row", r.row, "error", err)
	}
	s.ctrl.sink.Status(ev)
}

func (r *itemReporter) progress() string {
	cat := r.session.opts.Catalog
	if cat.Empty() {
		return registry.ProgressNeedsCatalog
	}
	return fmt.Sprintf("%d/%d", r.regions, cat.Len())
}
