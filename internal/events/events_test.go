package events

import (
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/vesselbatch/internal/session"
	"github.com/vk/vesselbatch/internal/testutil"
)

type emitted struct {
	Event   string
	Payload any
}

func fakeSocket() (*SocketIO, *[]emitted) {
	var mu sync.Mutex
	var out []emitted
	return &SocketIO{emit: func(event string, payload any) {
		mu.Lock()
		defer mu.Unlock()
		out = append(out, emitted{Event: event, Payload: payload})
	}}, &out
}

func TestMulti_FansOutInOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, b := NewRecorder(), NewRecorder()
	sink := Multi(a, nil, b)

	// --- Act ---
	sink.Lock(true)
	sink.Select(4)
	sink.Status(session.StatusEvent{Row: 4, Text: session.StatusAnalyzing})
	sink.DiskSpace(3.5)
	sink.State("s1", session.Completed)

	// --- Assert ---
	for _, r := range []*Recorder{a, b} {
		assert.True(t, r.Locked())
		assert.Equal(t, 4, r.Selected())
		require.Len(t, r.Statuses(), 1)
		assert.Equal(t, []float64{3.5}, r.DiskWarnings())
		assert.Equal(t, []session.State{session.Completed}, r.States())
	}
}

func TestRecorder_Reset(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Lock(true)
	r.Select(2)
	r.Reset()

	assert.False(t, r.Locked())
	assert.Equal(t, -1, r.Selected())
	assert.Empty(t, r.Statuses())
}

func TestLog_WritesStructuredRecords(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf testutil.SafeBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLog(logger)

	// --- Act ---
	sink.Status(session.StatusEvent{Session: "s1", Row: 2, Text: session.StatusFailed, Final: true, Outcome: session.OutcomeFailed})
	sink.DiskSpace(12)
	sink.State("s1", session.Cancelled)

	// --- Assert ---
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "row=2")
	assert.Contains(t, out, "outcome=failed")
	assert.Contains(t, out, "required_gb=12")
	assert.Contains(t, out, "state=cancelled")
	assert.Equal(t, 3, strings.Count(out, "component=events"))
}

func TestSocketIO_Payloads(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sink, out := fakeSocket()

	// --- Act ---
	sink.Lock(true)
	sink.Select(1)
	sink.Status(session.StatusEvent{
		Session: "s1", Row: 1, Text: session.StatusAnalyzed, Extra: "2/2",
		Final: true, Outcome: session.OutcomeAnalyzed, Elapsed: 1500 * time.Millisecond,
	})
	sink.DiskSpace(2)
	sink.State("s1", session.Completed)

	// --- Assert ---
	want := []emitted{
		{Event: EventLock, Payload: map[string]bool{"locked": true}},
		{Event: EventSelect, Payload: map[string]int{"row": 1}},
		{Event: EventStatus, Payload: StatusPayload{
			Session: "s1", Row: 1, Status: "Analyzed", Regions: "2/2",
			Final: true, Outcome: "analyzed", ElapsedMS: 1500,
		}},
		{Event: EventDiskSpace, Payload: map[string]float64{"required_gb": 2}},
		{Event: EventState, Payload: map[string]string{"session": "s1", "state": "completed"}},
	}
	if diff := cmp.Diff(want, *out); diff != "" {
		t.Errorf("emitted events mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, sink.Close())
}
