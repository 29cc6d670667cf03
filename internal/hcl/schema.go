package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a manifest.
type fileRoot struct {
	Batch      *batchBlock      `hcl:"batch,block"`
	Analyzers  []*analyzerBlock `hcl:"analyzer,block"`
	Publishers []*publishBlock  `hcl:"publish,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

type batchBlock struct {
	DatasetType    string        `hcl:"dataset_type,optional"`
	AnnotationType string        `hcl:"annotation_type,optional"`
	GraphFormat    string        `hcl:"graph_format,optional"`
	ResultsDir     string        `hcl:"results_dir,optional"`
	Files          *filesBlock   `hcl:"files,block"`
	Catalog        *catalogBlock `hcl:"catalog,block"`
	Graph          *graphBlock   `hcl:"graph,block"`
}

type graphBlock struct {
	Type              string            `hcl:"type,optional"`
	CSVDelimiter      string            `hcl:"csv_delimiter,optional"`
	FilterCliques     bool              `hcl:"filter_cliques,optional"`
	SmoothCenterlines bool              `hcl:"smooth_centerlines,optional"`
	AttributeKeys     map[string]string `hcl:"attribute_keys,optional"`
}

type filesBlock struct {
	Column1       []string `hcl:"column1,optional"`
	Column2       []string `hcl:"column2,optional"`
	Column2Folder string   `hcl:"column2_folder,optional"`
}

type catalogBlock struct {
	Path                  string `hcl:"path"`
	AcceptDuplicateColors bool   `hcl:"accept_duplicate_colors,optional"`
}

type analyzerBlock struct {
	Type                string            `hcl:"type,label"`
	Command             []string          `hcl:"command,optional"`
	Dir                 string            `hcl:"dir,optional"`
	Env                 map[string]string `hcl:"env,optional"`
	RequiredSpaceFactor float64           `hcl:"required_space_factor,optional"`
	CacheDir            string            `hcl:"cache_dir,optional"`
}

type publishBlock struct {
	Type               string `hcl:"type,label"`
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
