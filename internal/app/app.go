package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/batch"
	"github.com/vk/vesselbatch/internal/config"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/events"
	"github.com/vk/vesselbatch/internal/metrics"
	"github.com/vk/vesselbatch/internal/prefs"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	manifest *config.Manifest

	prefs      *prefs.Prefs
	prefsPath  string
	resultsDir string
	analyzer   analysis.Analyzer

	recorder  *events.Recorder
	collector *metrics.Collector

	mu    sync.Mutex
	batch *batch.Context
}

// NewApp loads the manifest and the saved preferences and builds the
// analyzer. Nothing is read from the batch's files yet.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logW := cfg.LogWriter
	if logW == nil {
		logW = outW
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	manifest, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Debug("Manifest loaded and translated into unified model.", "path", manifest.Path)

	prefsPath := cfg.PrefsPath
	if prefsPath == "" {
		if prefsPath, err = prefs.DefaultPath(); err != nil {
			logger.Warn("Preferences are disabled.", "error", err)
		}
	}
	p := &prefs.Prefs{}
	if prefsPath != "" {
		if p, err = prefs.Load(prefsPath); err != nil {
			return nil, err
		}
	}

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		manifest:   manifest,
		prefs:      p,
		prefsPath:  prefsPath,
		resultsDir: prefs.ResultsDir(cfg.ResultsDir, manifest.Batch.ResultsDir, p),
		analyzer:   newAnalyzer(manifest.Analyzer, cfg.DryRun),
		recorder:   events.NewRecorder(),
		collector:  metrics.NewCollector(),
	}, nil
}

// newAnalyzer builds the analyzer the manifest asks for. Without an analyzer
// block, or in a dry run, inputs are only checked.
func newAnalyzer(a *config.Analyzer, dryRun bool) analysis.Analyzer {
	if dryRun || a == nil || a.Type != config.AnalyzerCommand {
		return analysis.Probe{}
	}

	keys := make([]string, 0, len(a.Env))
	for k := range a.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+a.Env[k])
	}

	cmd := &analysis.Command{Args: a.Command, Dir: a.Dir, Env: env}
	return analysis.NewDiskGuard(cmd, a.CacheDir, a.RequiredSpaceFactor)
}

// Batch returns the prepared batch, or nil before Run or Validate.
func (a *App) Batch() *batch.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.batch
}

// ResultsDir returns the resolved results directory.
func (a *App) ResultsDir() string { return a.resultsDir }

// Recorder returns the in-memory event recorder. This is primarily for testing.
func (a *App) Recorder() *events.Recorder { return a.recorder }

var (
	// ErrCancelled is returned by Run when the session was cancelled.
	ErrCancelled = errors.New("analysis cancelled")
	// ErrItemsFailed is returned by Run when the session completed but some
	// items could not be analyzed.
	ErrItemsFailed = errors.New("some items failed")
)
