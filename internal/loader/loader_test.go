package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/vesselbatch/internal/mode"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mode    mode.Mode
		ext     string
		columns []int
		kinds   []Kind
		exts    [][]string
	}{
		{
			name:    "plain volumes",
			mode:    mode.Mode{Dataset: mode.Volume, Annotation: mode.None},
			columns: []int{1},
			kinds:   []Kind{Files},
			exts:    [][]string{VolumeExtensions},
		},
		{
			name:    "id annotation",
			mode:    mode.Mode{Dataset: mode.Volume, Annotation: mode.ID},
			columns: []int{1, 2},
			kinds:   []Kind{Files, Files},
			exts:    [][]string{VolumeExtensions, {"nii"}},
		},
		{
			name:    "rgb annotation",
			mode:    mode.Mode{Dataset: mode.Volume, Annotation: mode.RGB},
			columns: []int{1, 2},
			kinds:   []Kind{Files, Folder},
			exts:    [][]string{VolumeExtensions, nil},
		},
		{
			name:    "csv graph",
			mode:    mode.Mode{Dataset: mode.Graph, Annotation: mode.RGB, Graph: mode.CSV},
			columns: []int{1, 2},
			kinds:   []Kind{Files, Files},
			exts:    [][]string{{"csv"}, {"csv"}},
		},
		{
			name:    "single file graph",
			mode:    mode.Mode{Dataset: mode.Graph, Graph: mode.Other},
			ext:     "gml",
			columns: []int{1},
			kinds:   []Kind{Files},
			exts:    [][]string{{"gml"}},
		},
		{
			name:    "single file graph default extension",
			mode:    mode.Mode{Dataset: mode.Graph, Graph: mode.Other},
			columns: []int{1},
			kinds:   []Kind{Files},
			exts:    [][]string{{"graphml"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan := Plan(tc.mode, tc.ext)

			require.Len(t, plan, len(tc.columns))
			for i, p := range plan {
				assert.Equal(t, tc.columns[i], p.Column)
				assert.Equal(t, tc.kinds[i], p.Kind)
				assert.Equal(t, tc.exts[i], p.Extensions)
				assert.NotEmpty(t, p.Message)
			}
			// The number of prompts follows the schema's paired column.
			assert.Equal(t, tc.mode.Schema().RequiresColumn2, len(plan) == 2)
		})
	}
}

func TestLoad_PartitionsColumns(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	picker := StaticPicker{
		Column1: []string{"/v/a.csv", "/v/b.csv"},
		Column2: []string{"/e/a.csv", "/e/b.csv"},
	}

	// --- Act ---
	sel, ok, err := Load(context.Background(), mode.Mode{Dataset: mode.Graph, Graph: mode.CSV}, "", picker)

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, picker.Column1, sel.Column1)
	assert.Equal(t, picker.Column2, sel.Column2)
}

func TestLoad_RGBFolderExpandsToSubfolders(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	parent := t.TempDir()
	for _, name := range []string{"b", "a"} {
		require.NoError(t, os.Mkdir(filepath.Join(parent, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(parent, "notes.txt"), nil, 0o644))
	picker := StaticPicker{Column1: []string{"/v/1.nii", "/v/2.nii"}, Column2: []string{parent}}

	// --- Act ---
	sel, ok, err := Load(context.Background(), mode.Mode{Dataset: mode.Volume, Annotation: mode.RGB}, "", picker)

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{filepath.Join(parent, "a"), filepath.Join(parent, "b")}, sel.Column2)
}

func TestLoad_AbortReturnsNothing(t *testing.T) {
	t.Parallel()

	calls := 0
	picker := PickerFunc(func(_ context.Context, p Prompt) ([]string, error) {
		calls++
		if p.Column == 2 {
			return nil, nil
		}
		return []string{"/v/1.nii"}, nil
	})

	sel, ok, err := Load(context.Background(), mode.Mode{Dataset: mode.Volume, Annotation: mode.ID}, "", picker)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sel.Column1)
	assert.Equal(t, 2, calls)
}

func TestLoad_PickerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("dialog crashed")
	picker := PickerFunc(func(context.Context, Prompt) ([]string, error) { return nil, boom })

	_, ok, err := Load(context.Background(), mode.Mode{}, "", picker)

	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestStaticPicker_FolderTakesOnePath(t *testing.T) {
	t.Parallel()

	_, err := StaticPicker{Column2: []string{"/a", "/b"}}.Pick(context.Background(), Prompt{Column: 2, Kind: Folder})
	require.Error(t, err)
}

func TestStaticPicker_FolderInFilesPromptIsSearched(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	for _, name := range []string{"b.nii", "sub/a.NII", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	picker := StaticPicker{Column1: []string{root, "/v/explicit.nii"}}

	// --- Act ---
	paths, err := picker.Pick(context.Background(), Prompt{Column: 1, Kind: Files, Extensions: []string{"nii"}})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.nii"),
		filepath.Join(root, "sub", "a.NII"),
		"/v/explicit.nii",
	}, paths)
}
