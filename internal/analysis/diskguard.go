package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/vk/vesselbatch/internal/ctxlog"
)

const bytesPerGB = 1e9

// DefaultSpaceFactor is the assumed ratio between the labeled volume cached
// during annotation analysis and the primary file on disk.
const DefaultSpaceFactor = 2.0

// DiskGuard checks free space before annotation items. Labeling caches a copy
// of the volume, so an item whose estimate does not fit is refused with an
// InsufficientSpaceError instead of failing halfway through.
type DiskGuard struct {
	next     Analyzer
	cacheDir string
	factor   float64
	freeFn   func(ctx context.Context, path string) (uint64, error)
}

// NewDiskGuard wraps next. An empty cacheDir means the job's results
// directory; a non-positive factor means DefaultSpaceFactor.
func NewDiskGuard(next Analyzer, cacheDir string, factor float64) *DiskGuard {
	if factor <= 0 {
		factor = DefaultSpaceFactor
	}
	return &DiskGuard{next: next, cacheDir: cacheDir, factor: factor, freeFn: freeSpace}
}

// Analyze implements Analyzer.
func (g *DiskGuard) Analyze(ctx context.Context, job Job, rep Reporter) error {
	if !job.Mode.Annotated() {
		return g.next.Analyze(ctx, job, rep)
	}

	info, err := os.Stat(job.Primary)
	if err != nil {
		return fmt.Errorf("cannot size %s: %w", job.Primary, err)
	}

	dir := g.cacheDir
	if dir == "" {
		dir = job.ResultsDir
	}
	required := float64(info.Size()) * g.factor

	free, err := g.freeFn(ctx, dir)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not probe free disk space, continuing.", "path", dir, "error", err)
		return g.next.Analyze(ctx, job, rep)
	}
	if float64(free) < required {
		return &InsufficientSpaceError{
			RequiredGB:  required / bytesPerGB,
			AvailableGB: float64(free) / bytesPerGB,
			Path:        dir,
		}
	}
	return g.next.Analyze(ctx, job, rep)
}

func freeSpace(ctx context.Context, path string) (uint64, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return u.Free, nil
}
