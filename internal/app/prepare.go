package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/vesselbatch/internal/batch"
	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/fsutil"
	"github.com/vk/vesselbatch/internal/loader"
	"github.com/vk/vesselbatch/internal/session"
)

// prepare builds the batch described by the manifest: the mode, the files of
// both columns and the annotation catalog.
func (a *App) prepare(ctx context.Context, sink session.Sink) (*batch.Context, error) {
	logger := ctxlog.FromContext(ctx)
	mb := a.manifest.Batch

	m, graphExt, err := mb.Mode()
	if err != nil {
		return nil, err
	}

	graph, err := mb.Graph.Options()
	if err != nil {
		return nil, err
	}

	column1, err := fsutil.ExpandPaths(a.manifest.Dir, mb.Column1)
	if err != nil {
		return nil, fmt.Errorf("column1: %w", err)
	}
	var column2 []string
	if mb.Column2Folder != "" {
		column2 = []string{mb.Column2Folder}
	} else if column2, err = fsutil.ExpandPaths(a.manifest.Dir, mb.Column2); err != nil {
		return nil, fmt.Errorf("column2: %w", err)
	}

	b := batch.New(batch.Options{
		Mode:           m,
		GraphExtension: graphExt,
		Graph:          graph,
		ResultsDir:     a.resultsDir,
		Analyzer:       a.analyzer,
		Picker:         loader.StaticPicker{Column1: column1, Column2: column2},
		Sink:           sink,
	})

	if m.Annotated() && mb.Catalog != nil {
		accept := mb.Catalog.AcceptDuplicateColors
		err := b.LoadCatalog(ctx, mb.Catalog.Path, func(*catalog.DuplicateColorWarning) bool { return accept })
		if err != nil {
			if errors.Is(err, batch.ErrCatalogDeclined) {
				return nil, fmt.Errorf("%w (set accept_duplicate_colors to use it anyway)", err)
			}
			return nil, err
		}
	}

	ok, err := b.StartLoad(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warn("No files were selected.", "mode", m.String())
	}

	a.mu.Lock()
	a.batch = b
	a.mu.Unlock()

	logger.Info("Batch prepared.", "mode", m.String(), "rows", b.Registry().Len(), "results_dir", a.resultsDir)
	return b, nil
}

// Validate prepares the batch without running it, prints its table and
// reports whether it could run.
func (a *App) Validate(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	b, err := a.prepare(ctx, a.recorder)
	if err != nil {
		return err
	}
	if err := renderTable(a.outW, b); err != nil {
		return err
	}
	return b.Validate()
}
