package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// Graph types. Branch graphs have one edge per vessel segment; centerline
// graphs have one edge per centerline step.
const (
	GraphBranches    = "Branches"
	GraphCenterlines = "Centerlines"
)

// AttributeKeys are the graph attribute names an analysis may be told about.
var AttributeKeys = []string{
	"vertex_x_pos", "vertex_y_pos", "vertex_z_pos", "vertex_radius",
	"edge_radius", "edge_length", "edge_volume", "edge_surface_area",
	"edge_tortuosity", "edge_source", "edge_target", "edge_hex_color",
}

// GraphOptions tells the analysis how to read pre-built graphs. It is ignored
// for volume datasets.
type GraphOptions struct {
	Type              string
	FilterCliques     bool
	SmoothCenterlines bool
	// Delimiter separates CSV fields.
	Delimiter string
	// Keys maps an entry of AttributeKeys to the attribute name used in the
	// input files.
	Keys map[string]string
}

// DefaultGraphOptions returns branch graphs with comma-separated CSV files.
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{Type: GraphBranches, Delimiter: ","}
}

// ParseGraphType accepts "branches" or "centerlines", case-insensitively. An
// empty string selects branches.
func ParseGraphType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "branches":
		return GraphBranches, nil
	case "centerlines":
		return GraphCenterlines, nil
	}
	return "", fmt.Errorf("unknown graph type %q: must be 'branches' or 'centerlines'", s)
}

// ParseDelimiter accepts a single character or the names "space", "tab" and
// "comma". An empty string selects a comma.
func ParseDelimiter(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "comma":
		return ",", nil
	case "space":
		return " ", nil
	case "tab":
		return "\t", nil
	}
	if len([]rune(s)) != 1 {
		return "", fmt.Errorf("csv delimiter %q must be a single character, 'space' or 'tab'", s)
	}
	return s, nil
}

// CheckKeys reports any key of keys that is not in AttributeKeys.
func CheckKeys(keys map[string]string) error {
	var unknown []string
	for k := range keys {
		if !isAttributeKey(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown graph attribute keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func isAttributeKey(k string) bool {
	for _, a := range AttributeKeys {
		if a == k {
			return true
		}
	}
	return false
}
