package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/vesselbatch/internal/session"
)

func TestCollector_CountsFinalEventsOnly(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	c := NewCollector()

	// --- Act ---
	c.Status(session.StatusEvent{Row: 0, Text: session.StatusAnalyzing})
	c.Status(session.StatusEvent{Row: 0, Final: true, Outcome: session.OutcomeAnalyzed, Elapsed: time.Second})
	c.Status(session.StatusEvent{Row: 1, Final: true, Outcome: session.OutcomeInsufficientSpace})
	c.Status(session.StatusEvent{Row: 2, Final: true, Outcome: session.OutcomeAnalyzed})
	c.DiskSpace(4)

	// --- Assert ---
	assert.Equal(t, 2.0, testutil.ToFloat64(c.items.WithLabelValues("analyzed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.items.WithLabelValues("insufficient_space")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.diskWarnings))
	assert.Equal(t, 1, testutil.CollectAndCount(c.itemDuration))
}

func TestCollector_SessionLifecycle(t *testing.T) {
	t.Parallel()

	c := NewCollector()

	c.State("a", session.Running)
	c.Lock(true)
	c.Select(3)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.locked))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.selectedRow))

	c.State("a", session.Cancelling)
	c.State("a", session.Cancelled)
	c.Lock(false)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.locked))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessions.WithLabelValues("cancelled")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.sessions.WithLabelValues("completed")))
	assert.Empty(t, c.started)
}

func TestCollector_Handler(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.DiskSpace(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vesselbatch_disk_space_warnings_total 1")
}
