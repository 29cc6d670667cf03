package catalog

import (
	"encoding/json"
	"sort"
	"strings"
)

// Marker is the single top-level key of a valid catalog document.
const Marker = "VesselVio Annotations"

// Region is one named region of a catalog.
type Region struct {
	Name string
	// Colors holds the hex triplets that identify the region in RGB
	// annotation volumes.
	Colors []string
	// IDs holds the integer or float labels that identify the region in ID
	// annotation volumes.
	IDs []json.Number
	// Raw is the region's metadata exactly as it appeared in the document.
	// It is handed to the analysis unchanged.
	Raw json.RawMessage
}

// Catalog is a loaded annotation catalog.
type Catalog struct {
	// Source is the path the catalog was loaded from, if any.
	Source  string
	regions map[string]Region
	names   []string
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// SourcePath returns Source, or "" for a nil catalog.
func (c *Catalog) SourcePath() string {
	if c == nil {
		return ""
	}
	return c.Source
}

// Empty reports whether the catalog is nil or has no regions.
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

// Names returns the region names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Region looks up a region by name.
func (c *Catalog) Region(name string) (Region, bool) {
	if c == nil {
		return Region{}, false
	}
	r, ok := c.regions[name]
	return r, ok
}

// DuplicateColors returns every color (normalized to lower-case, without a
// leading '#') that appears more than once across all regions, sorted.
func (c *Catalog) DuplicateColors() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]int)
	for _, name := range c.names {
		for _, color := range c.regions[name].Colors {
			seen[normalizeColor(color)]++
		}
	}

	var dups []string
	for color, n := range seen {
		if n > 1 {
			dups = append(dups, color)
		}
	}
	sort.Strings(dups)
	return dups
}

func normalizeColor(c string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}
