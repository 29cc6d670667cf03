package events

import (
	"log/slog"

	"github.com/vk/vesselbatch/internal/session"
)

// Log writes every event to a structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log sink. A nil logger means slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger.With("component", "events")}
}

func (l *Log) Lock(locked bool) {
	if locked {
		l.logger.Debug("Batch controls locked.")
		return
	}
	l.logger.Debug("Batch controls unlocked.")
}

func (l *Log) Select(row int) {
	l.logger.Debug("Row selected.", "row", row)
}

func (l *Log) Status(ev session.StatusEvent) {
	attrs := []any{"session", ev.Session, "row", ev.Row, "status", ev.Text}
	if ev.Extra != "" {
		attrs = append(attrs, "regions", ev.Extra)
	}
	if !ev.Final {
		l.logger.Debug("Item progress.", attrs...)
		return
	}
	attrs = append(attrs, "outcome", string(ev.Outcome), "elapsed", ev.Elapsed)
	if ev.Outcome == session.OutcomeAnalyzed {
		l.logger.Info("Item finished.", attrs...)
		return
	}
	l.logger.Warn("Item finished.", attrs...)
}

func (l *Log) DiskSpace(requiredGB float64) {
	l.logger.Warn("Insufficient disk space for annotation analysis. Free up space or change the cache location.", "required_gb", requiredGB)
}

func (l *Log) State(id string, s session.State) {
	l.logger.Info("Session state changed.", "session", id, "state", s.String())
}
