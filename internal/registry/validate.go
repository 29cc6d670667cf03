package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/mode"
)

// ErrNotRunnable is the uniform notice for a batch that fails validation.
var ErrNotRunnable = errors.New("load all files to run analysis")

// Validate checks reg against schema before a run. Every failing rule is
// listed in the returned error, which always wraps ErrNotRunnable.
//
// Rules:
//  1. at least one primary file is loaded;
//  2. if the schema requires column2, both columns have the same length;
//  3. if the schema requires a catalog, a non-empty catalog is loaded.
func Validate(schema mode.Schema, reg *Registry, cat *catalog.Catalog) error {
	var errs []string

	reg.mu.RLock()
	n1, n2 := len(reg.column1), len(reg.column2)
	reg.mu.RUnlock()

	if n1 == 0 {
		errs = append(errs, "no files loaded")
	}
	if schema.RequiresColumn2 && n1 != n2 {
		errs = append(errs, fmt.Sprintf("column counts differ: %d primary vs %d paired files", n1, n2))
	}
	if schema.RequiresCatalog && cat.Empty() {
		errs = append(errs, "annotation catalog not loaded")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrNotRunnable, strings.Join(errs, "\n- "))
	}
	return nil
}

// CanRun reports whether Validate passes. It has no side effects.
func CanRun(schema mode.Schema, reg *Registry, cat *catalog.Catalog) bool {
	return Validate(schema, reg, cat) == nil
}
