package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/vesselbatch/internal/analysis"
)

// ExecutionRecord holds the start and end times of one analyzed row.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// GatedAnalyzer is an analysis.Analyzer for concurrency tests. Each call
// announces its row on Started and then blocks until Release is called, so a
// test can act at an exact point between items.
type GatedAnalyzer struct {
	started chan int
	gate    chan struct{}

	mu      sync.Mutex
	errs    map[int]error
	regions map[int]int
	records map[int]ExecutionRecord
}

// NewGatedAnalyzer creates an analyzer whose Started channel buffers up to
// items announcements.
func NewGatedAnalyzer(items int) *GatedAnalyzer {
	return &GatedAnalyzer{
		started: make(chan int, items),
		gate:    make(chan struct{}),
		errs:    make(map[int]error),
		regions: make(map[int]int),
		records: make(map[int]ExecutionRecord),
	}
}

// FailRow makes the analysis of row return err.
func (g *GatedAnalyzer) FailRow(row int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[row] = err
}

// ReportRegions makes the analysis of row report n processed regions.
func (g *GatedAnalyzer) ReportRegions(row, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.regions[row] = n
}

// Started yields the row of every call, in call order.
func (g *GatedAnalyzer) Started() <-chan int { return g.started }

// Release lets exactly one blocked call finish.
func (g *GatedAnalyzer) Release() { g.gate <- struct{}{} }

// Records returns the execution record of every finished row.
func (g *GatedAnalyzer) Records() map[int]ExecutionRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[int]ExecutionRecord, len(g.records))
	for k, v := range g.records {
		out[k] = v
	}
	return out
}

// Analyze implements analysis.Analyzer.
func (g *GatedAnalyzer) Analyze(ctx context.Context, job analysis.Job, rep analysis.Reporter) error {
	start := time.Now()
	g.started <- job.Row

	select {
	case <-g.gate:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.regions[job.Row]; ok {
		for i := 1; i <= n; i++ {
			rep.Regions(i)
		}
	}
	g.records[job.Row] = ExecutionRecord{Start: start, End: time.Now()}
	return g.errs[job.Row]
}
