package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/vesselbatch/internal/config"
)

func writeManifest(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, dir
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path, dir := writeManifest(t, `
batch {
  dataset_type    = "volume"
  annotation_type = "rgb"
  results_dir     = "${manifest_dir}/out"

  files {
    column1        = ["volumes/*.nii"]
    column2_folder = "labels"
  }

  catalog {
    path                    = "regions.json"
    accept_duplicate_colors = true
  }
}

analyzer "command" {
  command               = ["vv-analyze", "--volume", "{primary}", "--token", env.VV_TOKEN]
  env                   = { THREADS = "4" }
  required_space_factor = 2.5
}

publish "socketio" {
  url       = "http://localhost:3000/socket.io/"
  namespace = "/progress"
}
`)
	loader := &Loader{environ: func() []string { return []string{"VV_TOKEN=secret", "BROKEN"} }}

	// --- Act ---
	m, err := loader.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	want := &config.Manifest{
		Path: path,
		Dir:  dir,
		Batch: config.Batch{
			DatasetType:    "volume",
			AnnotationType: "rgb",
			ResultsDir:     filepath.Join(dir, "out"),
			Column1:        []string{"volumes/*.nii"},
			Column2Folder:  filepath.Join(dir, "labels"),
			Catalog:        &config.Catalog{Path: filepath.Join(dir, "regions.json"), AcceptDuplicateColors: true},
		},
		Analyzer: &config.Analyzer{
			Type:                "command",
			Command:             []string{"vv-analyze", "--volume", "{primary}", "--token", "secret"},
			Env:                 map[string]string{"THREADS": "4"},
			RequiredSpaceFactor: 2.5,
		},
		Publishers: []*config.Publisher{
			{Type: "socketio", URL: "http://localhost:3000/socket.io/", Namespace: "/progress"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MinimalManifest(t *testing.T) {
	t.Parallel()

	path, _ := writeManifest(t, `
batch {
  files {
    column1 = ["/data/a.nii", "/data/b.nii"]
  }
}
`)

	m, err := NewLoader().Load(context.Background(), path)

	require.NoError(t, err)
	assert.Nil(t, m.Analyzer)
	assert.Empty(t, m.Publishers)
	assert.Equal(t, []string{"/data/a.nii", "/data/b.nii"}, m.Batch.Column1)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "syntax", body: `batch {`, wantErr: "failed to parse"},
		{name: "unknown attribute", body: `batch { colour = "red" }`, wantErr: "failed to decode"},
		{name: "missing env", body: `batch { results_dir = env.NOPE_NOT_SET_ANYWHERE }`, wantErr: "failed to decode"},
		{
			name:    "two analyzers",
			body:    "analyzer \"probe\" {}\nanalyzer \"probe\" {}",
			wantErr: "at most one analyzer",
		},
		{
			name:    "annotation without catalog",
			body:    `batch { annotation_type = "id" }`,
			wantErr: "requires a catalog",
		},
		{
			name:    "unknown publisher",
			body:    `publish "kafka" { url = "x" }`,
			wantErr: "unknown publisher",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path, _ := writeManifest(t, tc.body)
			loader := &Loader{environ: func() []string { return nil }}

			_, err := loader.Load(context.Background(), path)

			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}

func TestLoad_ExampleManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path, dir := writeManifest(t, ExampleManifest)

	// --- Act ---
	m, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "id", m.Batch.AnnotationType)
	assert.Equal(t, filepath.Join(dir, "results"), m.Batch.ResultsDir)
	require.NotNil(t, m.Batch.Catalog)
	assert.Equal(t, filepath.Join(dir, "regions.json"), m.Batch.Catalog.Path)
	require.NotNil(t, m.Analyzer)
	assert.Equal(t, config.AnalyzerCommand, m.Analyzer.Type)
	assert.Empty(t, m.Publishers)
}

func TestLoad_GraphOptions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path, _ := writeManifest(t, `
batch {
  dataset_type = "graph"
  graph_format = "csv"

  graph {
    type               = "centerlines"
    csv_delimiter      = "tab"
    smooth_centerlines = true
    attribute_keys     = { vertex_radius = "radius", edge_source = "from" }
  }

  files {
    column1 = ["v.csv"]
    column2 = ["e.csv"]
  }
}
`)

	// --- Act ---
	m, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	want := &config.Graph{
		Type:              "centerlines",
		Delimiter:         "tab",
		SmoothCenterlines: true,
		AttributeKeys:     map[string]string{"vertex_radius": "radius", "edge_source": "from"},
	}
	if diff := cmp.Diff(want, m.Batch.Graph); diff != "" {
		t.Errorf("graph block mismatch (-want +got):\n%s", diff)
	}
}
