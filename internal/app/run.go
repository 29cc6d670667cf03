package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/vesselbatch/internal/config"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/events"
	"github.com/vk/vesselbatch/internal/session"
)

// Run prepares the batch, runs one session over it and prints the result.
// Cancelling ctx cancels the session at its next item; the item in progress
// is allowed to finish.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	sockets := a.dialPublishers(ctx)
	defer func() {
		for _, s := range sockets {
			if err := s.Close(); err != nil {
				logger.Warn("Failed to close publisher.", "error", err)
			}
		}
	}()

	sinks := []session.Sink{events.NewLog(logger), a.recorder, a.collector}
	for _, s := range sockets {
		sinks = append(sinks, s)
	}

	b, err := a.prepare(ctx, events.Multi(sinks...))
	if err != nil {
		return err
	}
	if err := renderTable(a.outW, b); err != nil {
		return err
	}

	// A signal cancels ctx, which the session observes at its next item.
	s, err := b.StartRun(ctx)
	if err != nil {
		return err
	}
	a.savePrefs()

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	g, gctx := errgroup.WithContext(serverCtx)

	if a.config.ControlPort > 0 {
		g.Go(func() error {
			return a.serveControl(gctx, b, a.config.ControlPort)
		})
	}

	g.Go(func() error {
		defer stopServer()
		select {
		case <-s.Done():
			return nil
		case <-gctx.Done():
		}
		if ctx.Err() != nil {
			logger.Info("Cancellation requested, finishing the current item...")
		} else {
			logger.Error("Control server stopped unexpectedly, cancelling the session.")
		}
		if err := b.Cancel(); err != nil && !errors.Is(err, session.ErrNotRunning) {
			logger.Warn("Failed to cancel session.", "error", err)
		}
		<-s.Done()
		return nil
	})

	gErr := g.Wait()
	summary := s.Summary()

	if err := renderTable(a.outW, b); err != nil {
		return err
	}
	if err := renderSummary(a.outW, summary); err != nil {
		return err
	}
	if gErr != nil {
		return gErr
	}

	switch summary.State {
	case session.Failed:
		return fmt.Errorf("analysis failed: %w", summary.Err)
	case session.Cancelled:
		return ErrCancelled
	}
	if n := summary.Failed + summary.InsufficientSpace; n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrItemsFailed, n, summary.Total)
	}
	return nil
}

// dialPublishers connects every configured publisher. A publisher that cannot
// be reached is skipped.
func (a *App) dialPublishers(ctx context.Context) []*events.SocketIO {
	var out []*events.SocketIO
	for _, p := range a.manifest.Publishers {
		if p.Type != config.PublisherSocketIO {
			continue
		}
		s, err := events.DialSocketIO(ctx, events.SocketIOOptions{
			URL:                p.URL,
			Namespace:          p.Namespace,
			InsecureSkipVerify: p.InsecureSkipVerify,
		})
		if err != nil {
			a.logger.Warn("Publisher unavailable, continuing without it.", "url", p.URL, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

// savePrefs remembers the results directory of a started run.
func (a *App) savePrefs() {
	if a.prefsPath == "" || a.prefs.ResultsDir == a.resultsDir {
		return
	}
	a.prefs.ResultsDir = a.resultsDir
	if err := a.prefs.Save(a.prefsPath); err != nil {
		a.logger.Warn("Failed to save preferences.", "path", a.prefsPath, "error", err)
	}
}
