package config

import (
	"fmt"

	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/mode"
)

// Analyzer types accepted in a manifest.
const (
	AnalyzerCommand = "command"
	AnalyzerProbe   = "probe"
)

// PublisherSocketIO is the only publisher type.
const PublisherSocketIO = "socketio"

// Manifest is the unified representation of a batch manifest. Paths other
// than file patterns are absolute once loaded.
type Manifest struct {
	// Path is the manifest file and Dir its directory. File patterns are
	// relative to Dir.
	Path string
	Dir  string

	Batch      Batch
	Analyzer   *Analyzer
	Publishers []*Publisher
}

// Batch describes the files and mode of the batch.
type Batch struct {
	DatasetType    string
	AnnotationType string
	GraphFormat    string
	ResultsDir     string

	// Column1 and Column2 are file paths or glob patterns.
	Column1 []string
	Column2 []string
	// Column2Folder is the parent of the RGB annotation folders.
	Column2Folder string

	Catalog *Catalog
	Graph   *Graph
}

// Catalog points at the annotation catalog.
type Catalog struct {
	Path                  string
	AcceptDuplicateColors bool
}

// Graph describes how pre-built graphs are read.
type Graph struct {
	Type              string
	Delimiter         string
	FilterCliques     bool
	SmoothCenterlines bool
	AttributeKeys     map[string]string
}

// Options parses g into the options handed to the analysis. A nil Graph
// yields the defaults.
func (g *Graph) Options() (analysis.GraphOptions, error) {
	opts := analysis.DefaultGraphOptions()
	if g == nil {
		return opts, nil
	}
	var err error
	if opts.Type, err = analysis.ParseGraphType(g.Type); err != nil {
		return opts, err
	}
	if opts.Delimiter, err = analysis.ParseDelimiter(g.Delimiter); err != nil {
		return opts, err
	}
	if err := analysis.CheckKeys(g.AttributeKeys); err != nil {
		return opts, err
	}
	opts.FilterCliques = g.FilterCliques
	opts.SmoothCenterlines = g.SmoothCenterlines
	if len(g.AttributeKeys) > 0 {
		opts.Keys = make(map[string]string, len(g.AttributeKeys))
		for k, v := range g.AttributeKeys {
			opts.Keys[k] = v
		}
	}
	return opts, nil
}

// Analyzer selects and configures the per-item analysis.
type Analyzer struct {
	Type                string
	Command             []string
	Dir                 string
	Env                 map[string]string
	RequiredSpaceFactor float64
	CacheDir            string
}

// Publisher is a remote progress sink.
type Publisher struct {
	Type               string
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Mode parses the batch's mode axes. The second result is the file extension
// for single-file graph formats.
func (b *Batch) Mode() (mode.Mode, string, error) {
	d, err := mode.ParseDatasetType(b.DatasetType)
	if err != nil {
		return mode.Mode{}, "", err
	}
	a, err := mode.ParseAnnotationType(b.AnnotationType)
	if err != nil {
		return mode.Mode{}, "", err
	}
	g, ext := mode.ParseGraphFormat(b.GraphFormat)
	return mode.Mode{Dataset: d, Annotation: a, Graph: g}, ext, nil
}

// Validate checks the manifest for combinations that can never run.
func (m *Manifest) Validate() error {
	md, _, err := m.Batch.Mode()
	if err != nil {
		return err
	}
	if md.Annotated() && m.Batch.Catalog == nil {
		return fmt.Errorf("annotation type %s requires a catalog block", md.Annotation)
	}
	if m.Batch.Graph != nil {
		if md.Dataset != mode.Graph {
			return fmt.Errorf("the graph block is only used by graph datasets")
		}
		if _, err := m.Batch.Graph.Options(); err != nil {
			return err
		}
	}
	if m.Batch.Column2Folder != "" && md.Annotation != mode.RGB {
		return fmt.Errorf("column2_folder is only used by rgb annotations")
	}
	if m.Analyzer != nil {
		switch m.Analyzer.Type {
		case AnalyzerCommand:
			if len(m.Analyzer.Command) == 0 {
				return fmt.Errorf("analyzer %q requires a command", m.Analyzer.Type)
			}
		case AnalyzerProbe:
		default:
			return fmt.Errorf("unknown analyzer type %q", m.Analyzer.Type)
		}
	}
	for _, p := range m.Publishers {
		if p.Type != PublisherSocketIO {
			return fmt.Errorf("unknown publisher type %q", p.Type)
		}
		if p.URL == "" {
			return fmt.Errorf("publisher %q requires a url", p.Type)
		}
	}
	return nil
}
