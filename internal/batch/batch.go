package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/loader"
	"github.com/vk/vesselbatch/internal/mode"
	"github.com/vk/vesselbatch/internal/registry"
	"github.com/vk/vesselbatch/internal/session"
)

var (
	// ErrLocked is returned by mutating commands while a session is active.
	ErrLocked = errors.New("batch is locked by a running analysis")
	// ErrCatalogDeclined is returned by LoadCatalog when the duplicate color
	// warning was not confirmed.
	ErrCatalogDeclined = errors.New("annotation catalog declined")
	// ErrAlreadyAnalyzed is returned by StartRun when the loaded files were
	// already run once. It always comes wrapped with registry.ErrNotRunnable.
	ErrAlreadyAnalyzed = errors.New("files were already analyzed")
	// ErrNoAnnotation is returned by LoadCatalog when the annotation type is
	// None.
	ErrNoAnnotation = errors.New("annotation type None does not use a catalog")
)

// Options configures a new Context.
type Options struct {
	Mode mode.Mode
	// GraphExtension is the file extension for single-file graph formats.
	GraphExtension string
	// Graph is handed to every job of a graph dataset. The zero value means
	// analysis.DefaultGraphOptions.
	Graph      analysis.GraphOptions
	ResultsDir string
	Analyzer   analysis.Analyzer
	Picker     loader.Picker
	Sink       session.Sink
}

// Context is the state of one batch. It is safe for concurrent use.
type Context struct {
	reg    *registry.Registry
	ctrl   *session.Controller
	picker loader.Picker

	mu         sync.Mutex
	mode       mode.Mode
	graphExt   string
	graph      analysis.GraphOptions
	catalog    *catalog.Catalog
	resultsDir string
	analyzed   bool
}

// New creates a batch with an empty registry laid out for opts.Mode.
func New(opts Options) *Context {
	graphExt := opts.GraphExtension
	if graphExt == "" {
		graphExt = mode.DefaultGraphExtension
	}
	graph := opts.Graph
	if graph.Type == "" {
		graph = analysis.DefaultGraphOptions()
	}
	reg := registry.New(opts.Mode.Schema())
	return &Context{
		reg:        reg,
		ctrl:       session.NewController(opts.Analyzer, reg, opts.Sink),
		picker:     opts.Picker,
		mode:       opts.Mode,
		graphExt:   graphExt,
		graph:      graph,
		resultsDir: opts.ResultsDir,
	}
}

// Mode returns the current mode.
func (c *Context) Mode() mode.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Schema returns the schema of the current mode.
func (c *Context) Schema() mode.Schema {
	return c.Mode().Schema()
}

// Registry returns the live file registry.
func (c *Context) Registry() *registry.Registry { return c.reg }

// Controller returns the session controller.
func (c *Context) Controller() *session.Controller { return c.ctrl }

// Catalog returns the loaded catalog, or nil.
func (c *Context) Catalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// ResultsDir returns the output directory handed to the analysis.
func (c *Context) ResultsDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultsDir
}

// Locked reports whether a session currently owns the batch.
func (c *Context) Locked() bool { return c.ctrl.Active() }

// SetMode switches all three mode axes at once. Any change clears the loaded
// files; switching the annotation type to None also drops the catalog.
func (c *Context) SetMode(m mode.Mode, graphExt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return ErrLocked
	}

	if graphExt == "" {
		graphExt = mode.DefaultGraphExtension
	}
	if m == c.mode && graphExt == c.graphExt {
		return nil
	}
	c.mode = m
	c.graphExt = graphExt
	if m.Annotation == mode.None {
		c.catalog = nil
	}
	c.analyzed = false
	c.reg.Reset(m.Schema())
	return nil
}

// SetDatasetType changes the dataset axis.
func (c *Context) SetDatasetType(d mode.DatasetType) error {
	m := c.Mode()
	m.Dataset = d
	return c.SetMode(m, c.graphExtension())
}

// SetAnnotationType changes the annotation axis.
func (c *Context) SetAnnotationType(a mode.AnnotationType) error {
	m := c.Mode()
	m.Annotation = a
	return c.SetMode(m, c.graphExtension())
}

// SetGraphFormat changes the graph axis. ext is the extension used for
// single-file formats.
func (c *Context) SetGraphFormat(g mode.GraphFormat, ext string) error {
	m := c.Mode()
	m.Graph = g
	return c.SetMode(m, ext)
}

func (c *Context) graphExtension() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graphExt
}

// SetResultsDir changes the output directory for the next run.
func (c *Context) SetResultsDir(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return ErrLocked
	}
	c.resultsDir = dir
	return nil
}

// StartLoad asks the picker for the files the current mode needs and appends
// them. It reports false when the user aborted. Files of a batch that was
// already analyzed are cleared first.
func (c *Context) StartLoad(ctx context.Context) (bool, error) {
	if c.Locked() {
		return false, ErrLocked
	}
	if c.picker == nil {
		return false, errors.New("no file picker configured")
	}

	c.mu.Lock()
	m, ext := c.mode, c.graphExt
	c.mu.Unlock()

	sel, ok, err := loader.Load(ctx, m, ext, c.picker)
	if err != nil || !ok {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return false, ErrLocked
	}
	if c.analyzed {
		c.reg.Clear()
		c.analyzed = false
	}
	c.reg.AppendColumn1(sel.Column1)
	c.reg.AppendColumn2(sel.Column2)
	c.reg.InitializeQueue(c.catalog)

	ctxlog.FromContext(ctx).Info("Files loaded.", "column1", len(sel.Column1), "column2", len(sel.Column2), "rows", c.reg.Len())
	return true, nil
}

// LoadCatalog loads the annotation catalog at path. When the catalog has
// duplicate colors, confirm decides whether to keep it; a nil confirm
// declines. On any error the previous catalog stays in place.
func (c *Context) LoadCatalog(ctx context.Context, path string, confirm func(*catalog.DuplicateColorWarning) bool) error {
	if c.Locked() {
		return ErrLocked
	}
	m := c.Mode()
	if m.Annotation == mode.None {
		return ErrNoAnnotation
	}

	logger := ctxlog.FromContext(ctx).With("catalog", path)
	cat, err := catalog.Load(path, m.Annotation)
	if err != nil {
		var dup *catalog.DuplicateColorWarning
		if !errors.As(err, &dup) {
			return err
		}
		logger.Warn("Annotation catalog has duplicate colors.", "colors", dup.Colors)
		if confirm == nil || !confirm(dup) {
			return fmt.Errorf("%w: %w", ErrCatalogDeclined, dup)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return ErrLocked
	}
	c.catalog = cat
	c.reg.InitializeQueue(cat)
	logger.Info("Annotation catalog loaded.", "regions", cat.Len())
	return nil
}

// ClearCatalog drops the loaded catalog.
func (c *Context) ClearCatalog() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return ErrLocked
	}
	c.catalog = nil
	c.reg.InitializeQueue(nil)
	return nil
}

// RemoveRow removes one row. Out of range indices are ignored and reported
// as false.
func (c *Context) RemoveRow(index int) (bool, error) {
	if c.Locked() {
		return false, ErrLocked
	}
	return c.reg.Remove(index), nil
}

// ClearFiles empties the registry.
func (c *Context) ClearFiles() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return ErrLocked
	}
	c.reg.Clear()
	c.analyzed = false
	return nil
}

// Validate reports why the batch cannot run, or nil.
func (c *Context) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

// CanRun reports whether StartRun would be accepted by the validator.
func (c *Context) CanRun() bool {
	return c.Validate() == nil
}

func (c *Context) validateLocked() error {
	if c.analyzed {
		return fmt.Errorf("%w: %w", registry.ErrNotRunnable, ErrAlreadyAnalyzed)
	}
	return registry.Validate(c.mode.Schema(), c.reg, c.catalog)
}

// StartRun validates the batch and starts a session over a snapshot of it.
func (c *Context) StartRun(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked() {
		return nil, session.ErrSessionActive
	}

	if err := c.validateLocked(); err != nil {
		ctxlog.FromContext(ctx).Warn("Batch is not runnable.", "error", err)
		return nil, err
	}

	c.reg.InitializeQueue(c.catalog)
	s, err := c.ctrl.Start(ctx, c.reg.Snapshot(), session.Options{
		Mode:       c.mode,
		Catalog:    c.catalog,
		ResultsDir: c.resultsDir,
		Graph:      c.graph,
	})
	if err != nil {
		return nil, err
	}
	c.analyzed = true
	return s, nil
}

// Cancel asks the running session to stop at the next item.
func (c *Context) Cancel() error {
	return c.ctrl.Cancel()
}

// Session returns the most recent session, or nil.
func (c *Context) Session() *session.Session {
	return c.ctrl.Current()
}
