package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/vesselbatch/internal/mode"
)

// Probe is a dry-run analyzer. It checks that every input of a job exists and
// has the expected kind, without analyzing anything.
type Probe struct{}

// Analyze implements Analyzer.
func (Probe) Analyze(ctx context.Context, job Job, rep Reporter) error {
	rep.Status("Checking files...")

	if err := expectFile(job.Primary); err != nil {
		return err
	}

	switch {
	case job.Mode.Dataset == mode.Graph && job.Mode.Graph == mode.CSV:
		if err := expectFile(job.Associated); err != nil {
			return err
		}
	case job.Mode.Annotated():
		// RGB annotations are folders of slice images; ID annotations are
		// single volumes.
		var err error
		if job.Mode.Annotation == mode.RGB {
			err = expectDir(job.Associated)
		} else {
			err = expectFile(job.Associated)
		}
		if err != nil {
			return err
		}
		rep.Regions(job.Catalog.Len())
	}
	return ctx.Err()
}

func expectFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input unavailable: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a folder, expected a file", path)
	}
	return nil
}

func expectDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is a file, expected a folder", path)
	}
	return nil
}
