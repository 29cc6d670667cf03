package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vk/vesselbatch/internal/batch"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/metrics"
	"github.com/vk/vesselbatch/internal/session"
)

const shutdownTimeout = 5 * time.Second

type rowView struct {
	Index    int    `json:"index"`
	Column1  string `json:"column1"`
	Column2  string `json:"column2,omitempty"`
	Status   string `json:"status"`
	Progress string `json:"regions,omitempty"`
}

type sessionView struct {
	ID                string    `json:"id"`
	State             string    `json:"state"`
	Cursor            int       `json:"cursor"`
	Total             int       `json:"total"`
	Analyzed          int       `json:"analyzed"`
	Failed            int       `json:"failed"`
	InsufficientSpace int       `json:"insufficient_space"`
	Skipped           int       `json:"skipped"`
	Started           time.Time `json:"started"`
	Finished          time.Time `json:"finished,omitzero"`
	Error             string    `json:"error,omitempty"`
}

func newSessionView(s *session.Session) sessionView {
	sum := s.Summary()
	v := sessionView{
		ID:                sum.ID,
		State:             sum.State.String(),
		Cursor:            s.Cursor(),
		Total:             sum.Total,
		Analyzed:          sum.Analyzed,
		Failed:            sum.Failed,
		InsufficientSpace: sum.InsufficientSpace,
		Skipped:           sum.Skipped,
		Started:           sum.Started,
		Finished:          sum.Finished,
	}
	if sum.Err != nil {
		v.Error = sum.Err.Error()
	}
	return v
}

// newRouter builds the control API over a batch.
func newRouter(b *batch.Context, collector *metrics.Collector) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "locked": b.Locked()})
	})

	router.GET("/metrics", gin.WrapH(collector.Handler()))

	router.GET("/rows", func(c *gin.Context) {
		rows := b.Registry().Rows()
		out := make([]rowView, 0, len(rows))
		for _, r := range rows {
			out = append(out, rowView(r))
		}
		c.JSON(http.StatusOK, gin.H{"headers": b.Schema().Headers(), "rows": out})
	})

	router.GET("/session", func(c *gin.Context) {
		s := b.Session()
		if s == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no session has been started"})
			return
		}
		c.JSON(http.StatusOK, newSessionView(s))
	})

	router.POST("/session/cancel", func(c *gin.Context) {
		if err := b.Cancel(); err != nil {
			if errors.Is(err, session.ErrNotRunning) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"state": session.Cancelling.String()})
	})

	return router
}

// serveControl runs the control server on port until ctx is done.
func (a *App) serveControl(ctx context.Context, b *batch.Context, port int) error {
	logger := ctxlog.FromContext(ctx)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: newRouter(b, a.collector),
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting control server.", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("control server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down control server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("control server shutdown failed: %w", err)
	}
	logger.Info("Control server stopped.")
	return nil
}
