// Package analysis defines the boundary to the per-item analysis: the heavy,
// external work that computes vascular metrics for one file (or file pair).
//
// The batch engine never does the math itself. It hands each item to an
// Analyzer and listens to the Reporter for progress. This package also ships
// the analyzers the CLI wires up: Command, which delegates to an external
// program, Probe, a dry run that only checks the inputs, and DiskGuard, which
// refuses annotation items when the cache volume is short on space.
package analysis

import (
	"context"
	"fmt"

	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/mode"
)

// Job is one item of a batch.
type Job struct {
	Row        int
	Primary    string
	Associated string
	Mode       mode.Mode
	Catalog    *catalog.Catalog
	ResultsDir string
	// Graph is only meaningful for graph datasets.
	Graph GraphOptions
}

// Reporter receives progress for the job being analyzed.
type Reporter interface {
	// Status replaces the item's status text.
	Status(text string)
	// Regions reports how many annotation regions have been processed.
	Regions(done int)
}

// Analyzer analyzes a single job. It blocks until the job is finished.
type Analyzer interface {
	Analyze(ctx context.Context, job Job, rep Reporter) error
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, job Job, rep Reporter) error

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, job Job, rep Reporter) error {
	return f(ctx, job, rep)
}

// InsufficientSpaceError reports that an item could not be analyzed because
// the cache volume lacks free space.
type InsufficientSpaceError struct {
	// RequiredGB is the additional free space needed, in gigabytes.
	RequiredGB float64
	// AvailableGB is the free space that was found, if known.
	AvailableGB float64
	Path        string
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space on %s: need %.1f GB, have %.1f GB", e.Path, e.RequiredGB, e.AvailableGB)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Status(string) {}
func (NopReporter) Regions(int) {}
