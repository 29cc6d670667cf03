package catalog

import (
	"fmt"
	"strings"
)

// MalformedCatalogError is returned when a document is not a catalog. The
// load is rejected and any previously loaded catalog stays in effect.
type MalformedCatalogError struct {
	Path   string
	Reason string
}

func (e *MalformedCatalogError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed annotation catalog: %s", e.Reason)
	}
	return fmt.Sprintf("malformed annotation catalog %s: %s", e.Path, e.Reason)
}

// DuplicateColorWarning reports RGB regions that share colors. It is not
// fatal: the catalog returned alongside it is complete and may be used once
// the caller has confirmed.
type DuplicateColorWarning struct {
	Colors []string
}

func (w *DuplicateColorWarning) Error() string {
	return fmt.Sprintf("annotation regions share colors: %s", strings.Join(w.Colors, ", "))
}
