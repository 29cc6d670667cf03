package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/vk/vesselbatch/internal/mode"
)

// regionDoc is the decoded shape of one region. Unknown keys are kept in the
// raw message only.
type regionDoc struct {
	Colors []string      `json:"colors"`
	IDs    []json.Number `json:"ids"`
}

// Load reads and validates the catalog at path.
//
// A MalformedCatalogError means nothing was loaded. When annotation is RGB and
// two regions share a color, Load returns both the catalog and a
// *DuplicateColorWarning; the caller decides whether to keep the catalog.
func Load(path string, annotation mode.AnnotationType) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation catalog: %w", err)
	}
	c, err := Parse(data, annotation)
	if c != nil {
		c.Source = path
	}
	var merr *MalformedCatalogError
	if errors.As(err, &merr) {
		merr.Path = path
	}
	return c, err
}

// Parse validates a catalog document held in memory. See Load.
func Parse(data []byte, annotation mode.AnnotationType) (*Catalog, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &MalformedCatalogError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	if len(root) != 1 {
		return nil, &MalformedCatalogError{Reason: fmt.Sprintf("expected exactly one top-level key, found %d", len(root))}
	}
	body, ok := root[Marker]
	if !ok {
		return nil, &MalformedCatalogError{Reason: fmt.Sprintf("missing %q key", Marker)}
	}

	var rawRegions map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rawRegions); err != nil {
		return nil, &MalformedCatalogError{Reason: fmt.Sprintf("%q must map region names to region objects: %v", Marker, err)}
	}

	c := &Catalog{regions: make(map[string]Region, len(rawRegions))}
	for name, raw := range rawRegions {
		var doc regionDoc
		rd := json.NewDecoder(bytes.NewReader(raw))
		rd.UseNumber()
		if err := rd.Decode(&doc); err != nil {
			return nil, &MalformedCatalogError{Reason: fmt.Sprintf("region %q: %v", name, err)}
		}
		c.regions[name] = Region{Name: name, Colors: doc.Colors, IDs: doc.IDs, Raw: raw}
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	if annotation == mode.RGB {
		if dups := c.DuplicateColors(); len(dups) > 0 {
			return c, &DuplicateColorWarning{Colors: dups}
		}
	}
	return c, nil
}
