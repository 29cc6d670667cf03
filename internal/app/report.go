package app

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vk/vesselbatch/internal/batch"
	"github.com/vk/vesselbatch/internal/registry"
	"github.com/vk/vesselbatch/internal/session"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// statusStyle colors a status cell by its text.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case session.StatusAnalyzed:
		return cellStyle.Foreground(colorSuccess)
	case session.StatusFailed:
		return cellStyle.Foreground(colorError)
	case session.StatusInsufficientSpace:
		return cellStyle.Foreground(colorWarning)
	case registry.StatusQueued:
		return cellStyle.Foreground(colorMuted)
	}
	return cellStyle
}

// renderTable writes the batch's file table, laid out like its schema.
func renderTable(w io.Writer, b *batch.Context) error {
	schema := b.Schema()
	rows := b.Registry().Rows()
	statusCol := schema.Columns - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(schema.Headers()...)

	for _, r := range rows {
		cells := []string{base(r.Column1)}
		if schema.Columns > 2 {
			cells = append(cells, base(r.Column2))
		}
		if schema.HasProgressColumn() {
			cells = append(cells, r.Progress)
		}
		cells = append(cells, r.Status)
		t.Row(cells...)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == statusCol && row >= 0 && row < len(rows) {
			return statusStyle(rows[row].Status)
		}
		return cellStyle
	})

	title := titleStyle.Render(fmt.Sprintf("%s batch, %d files", b.Mode(), len(rows)))
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, t.Render())
	return err
}

// renderSummary writes the outcome counts of a finished session.
func renderSummary(w io.Writer, s session.Summary) error {
	stateStyle := lipgloss.NewStyle().Bold(true)
	switch s.State {
	case session.Completed:
		stateStyle = stateStyle.Foreground(colorSuccess)
	case session.Cancelled:
		stateStyle = stateStyle.Foreground(colorWarning)
	default:
		stateStyle = stateStyle.Foreground(colorError)
	}

	elapsed := s.Finished.Sub(s.Started).Round(time.Millisecond)
	_, err := fmt.Fprintf(w, "Session %s %s in %s: %d analyzed, %d failed, %d insufficient space, %d skipped\n",
		s.ID, stateStyle.Render(s.State.String()), elapsed,
		s.Analyzed, s.Failed, s.InsufficientSpace, s.Skipped)
	if err == nil && s.Err != nil {
		_, err = fmt.Fprintf(w, "%s\n", lipgloss.NewStyle().Foreground(colorError).Render(s.Err.Error()))
	}
	return err
}

func base(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}
