package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/vesselbatch/internal/analysis"
	"github.com/vk/vesselbatch/internal/mode"
)

func TestBatch_Mode(t *testing.T) {
	t.Parallel()

	b := Batch{DatasetType: "graph", GraphFormat: "gml"}
	m, ext, err := b.Mode()
	require.NoError(t, err)
	assert.Equal(t, mode.Mode{Dataset: mode.Graph, Graph: mode.Other}, m)
	assert.Equal(t, "gml", ext)

	_, _, err = (&Batch{AnnotationType: "hsv"}).Mode()
	assert.Error(t, err)
}

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		m       Manifest
		wantErr string
	}{
		{name: "plain", m: Manifest{}},
		{
			name:    "annotation without catalog",
			m:       Manifest{Batch: Batch{AnnotationType: "id"}},
			wantErr: "requires a catalog",
		},
		{
			name:    "folder outside rgb",
			m:       Manifest{Batch: Batch{AnnotationType: "id", Catalog: &Catalog{Path: "c.json"}, Column2Folder: "x"}},
			wantErr: "column2_folder",
		},
		{
			name:    "command without args",
			m:       Manifest{Analyzer: &Analyzer{Type: AnalyzerCommand}},
			wantErr: "requires a command",
		},
		{
			name:    "unknown analyzer",
			m:       Manifest{Analyzer: &Analyzer{Type: "gpu"}},
			wantErr: "unknown analyzer",
		},
		{
			name:    "publisher without url",
			m:       Manifest{Publishers: []*Publisher{{Type: PublisherSocketIO}}},
			wantErr: "requires a url",
		},
		{
			name:    "graph block on volumes",
			m:       Manifest{Batch: Batch{Graph: &Graph{Type: "branches"}}},
			wantErr: "only used by graph datasets",
		},
		{
			name:    "unknown graph type",
			m:       Manifest{Batch: Batch{DatasetType: "graph", Graph: &Graph{Type: "mesh"}}},
			wantErr: "unknown graph type",
		},
		{
			name:    "unknown attribute key",
			m:       Manifest{Batch: Batch{DatasetType: "graph", Graph: &Graph{AttributeKeys: map[string]string{"edge_colour": "c"}}}},
			wantErr: "edge_colour",
		},
		{
			name: "complete",
			m: Manifest{
				Batch:      Batch{AnnotationType: "rgb", Catalog: &Catalog{Path: "c.json"}, Column2Folder: "labels"},
				Analyzer:   &Analyzer{Type: AnalyzerProbe},
				Publishers: []*Publisher{{Type: PublisherSocketIO, URL: "http://localhost:3000"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.m.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestGraph_Options(t *testing.T) {
	t.Parallel()

	var none *Graph
	opts, err := none.Options()
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultGraphOptions(), opts)

	opts, err = (&Graph{
		Type:              "Centerlines",
		Delimiter:         "tab",
		SmoothCenterlines: true,
		AttributeKeys:     map[string]string{"vertex_radius": "radius"},
	}).Options()
	require.NoError(t, err)
	assert.Equal(t, analysis.GraphOptions{
		Type:              analysis.GraphCenterlines,
		SmoothCenterlines: true,
		Delimiter:         "\t",
		Keys:              map[string]string{"vertex_radius": "radius"},
	}, opts)

	_, err = (&Graph{Delimiter: ";;"}).Options()
	assert.ErrorContains(t, err, "single character")
}
