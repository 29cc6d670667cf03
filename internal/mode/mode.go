package mode

import (
	"fmt"
	"strings"
)

// DatasetType selects between segmented volumes and pre-built graphs.
type DatasetType int

const (
	Volume DatasetType = iota
	Graph
)

func (t DatasetType) String() string {
	switch t {
	case Volume:
		return "Volume"
	case Graph:
		return "Graph"
	default:
		return fmt.Sprintf("DatasetType(%d)", int(t))
	}
}

// AnnotationType selects how volume datasets are split into regions. It is
// ignored for graph datasets.
type AnnotationType int

const (
	None AnnotationType = iota
	ID
	RGB
)

func (t AnnotationType) String() string {
	switch t {
	case None:
		return "None"
	case ID:
		return "ID"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("AnnotationType(%d)", int(t))
	}
}

// GraphFormat selects between paired CSV vertex/edge files and single-file
// graph formats. It is ignored for volume datasets.
type GraphFormat int

const (
	CSV GraphFormat = iota
	Other
)

func (f GraphFormat) String() string {
	switch f {
	case CSV:
		return "CSV"
	case Other:
		return "Other"
	default:
		return fmt.Sprintf("GraphFormat(%d)", int(f))
	}
}

// Mode is the (dataset type, annotation type, graph format) triple.
type Mode struct {
	Dataset    DatasetType
	Annotation AnnotationType
	Graph      GraphFormat
}

// Schema resolves the mode. It is shorthand for Resolve.
func (m Mode) Schema() Schema {
	return Resolve(m.Dataset, m.Annotation, m.Graph)
}

// Annotated reports whether the mode analyzes annotation regions.
func (m Mode) Annotated() bool {
	return m.Dataset == Volume && m.Annotation != None
}

func (m Mode) String() string {
	if m.Dataset == Graph {
		return fmt.Sprintf("%s/%s", m.Dataset, m.Graph)
	}
	return fmt.Sprintf("%s/%s", m.Dataset, m.Annotation)
}

// ParseDatasetType accepts "volume" or "graph", case-insensitively.
func ParseDatasetType(s string) (DatasetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "volume", "":
		return Volume, nil
	case "graph":
		return Graph, nil
	}
	return 0, fmt.Errorf("unknown dataset type %q: must be 'volume' or 'graph'", s)
}

// ParseAnnotationType accepts "none", "id" or "rgb", case-insensitively.
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "id":
		return ID, nil
	case "rgb":
		return RGB, nil
	}
	return 0, fmt.Errorf("unknown annotation type %q: must be 'none', 'id' or 'rgb'", s)
}

// ParseGraphFormat maps "csv" to CSV and any other non-empty format name to
// Other. The returned extension is the lower-cased format name, used as the
// file filter for single-file graph formats.
func ParseGraphFormat(s string) (GraphFormat, string) {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch ext {
	case "csv":
		return CSV, "csv"
	case "":
		return Other, DefaultGraphExtension
	}
	return Other, ext
}

// DefaultGraphExtension is used when a single-file graph format is selected
// without naming one.
const DefaultGraphExtension = "graphml"
