package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/vesselbatch/internal/config"
	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// environ supplies env.<NAME>. Defaults to os.Environ.
	environ func() []string
}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses, evaluates and translates the manifest at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve manifest path %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(abs)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(dir), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if len(root.Analyzers) > 1 {
		return nil, fmt.Errorf("%s: at most one analyzer block is allowed, found %d", path, len(root.Analyzers))
	}

	m := translate(&root, abs, dir)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.",
		"column1_patterns", len(m.Batch.Column1),
		"column2_patterns", len(m.Batch.Column2),
		"publishers", len(m.Publishers),
	)
	return m, nil
}

// evalContext exposes env and manifest_dir to manifest expressions.
func (l *Loader) evalContext(dir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	environ := l.environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{
		"env":          envVal,
		"manifest_dir": cty.StringVal(dir),
	}}
}
