package mode

// Schema describes the file table required by a mode.
type Schema struct {
	// Columns is the number of table columns, including the status column.
	Columns int
	// RequiresColumn2 is true when every primary file needs a paired file.
	RequiresColumn2 bool
	// RequiresCatalog is true when an annotation catalog must be loaded.
	RequiresCatalog bool
}

var (
	plainSchema      = Schema{Columns: 2}
	annotationSchema = Schema{Columns: 4, RequiresColumn2: true, RequiresCatalog: true}
	csvSchema        = Schema{Columns: 3, RequiresColumn2: true}
)

// Resolve returns the schema for the given mode axes. The annotation type is
// ignored for graphs and the graph format is ignored for volumes.
func Resolve(dataset DatasetType, annotation AnnotationType, graph GraphFormat) Schema {
	switch dataset {
	case Graph:
		if graph == CSV {
			return csvSchema
		}
		return plainSchema
	default:
		if annotation == ID || annotation == RGB {
			return annotationSchema
		}
		return plainSchema
	}
}

// HasProgressColumn reports whether the schema carries the "regions
// processed" column.
func (s Schema) HasProgressColumn() bool {
	return s.Columns == 4
}

// Headers returns the table headers for the schema, in column order.
func (s Schema) Headers() []string {
	switch s.Columns {
	case 4:
		return []string{"File Name", "Annotation File Name", "Regions Processed", "File Status"}
	case 3:
		return []string{"File Name - Vertices", "File Name - Edges", "File Status"}
	default:
		return []string{"File Name", "File Status"}
	}
}
