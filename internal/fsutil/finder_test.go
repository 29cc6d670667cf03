package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.nii"))
	touch(t, filepath.Join(root, "nested", "a.NII"))
	touch(t, filepath.Join(root, "c.png"))
	touch(t, filepath.Join(root, "notes.txt"))

	// --- Act ---
	files, err := FindFilesByExtension(root, "nii", ".png")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.nii"),
		filepath.Join(root, "c.png"),
		filepath.Join(root, "nested", "a.NII"),
	}, files)
}

func TestImmediateSubdirs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	touch(t, filepath.Join(root, "mouse_2", "slice_000.png"))
	touch(t, filepath.Join(root, "mouse_1", "deeper", "slice_000.png"))
	touch(t, filepath.Join(root, "stray.png"))

	// --- Act ---
	dirs, err := ImmediateSubdirs(root)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mouse_1"), filepath.Join(root, "mouse_2")}, dirs)

	_, err = ImmediateSubdirs(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestExpandPaths(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	touch(t, filepath.Join(root, "vols", "v2.nii"))
	touch(t, filepath.Join(root, "vols", "v1.nii"))

	// --- Act ---
	paths, err := ExpandPaths(root, []string{"vols/*.nii", "/abs/explicit.nii", "", "missing.nii"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "vols", "v1.nii"),
		filepath.Join(root, "vols", "v2.nii"),
		"/abs/explicit.nii",
		filepath.Join(root, "missing.nii"),
	}, paths)
}
