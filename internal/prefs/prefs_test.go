package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	p, err := Load(filepath.Join(t.TempDir(), "prefs.yaml"))

	require.NoError(t, err)
	assert.Equal(t, &Prefs{}, p)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	// --- Act ---
	require.NoError(t, (&Prefs{ResultsDir: "/data/results"}).Save(path))
	p, err := Load(path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "/data/results", p.ResultsDir)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "results_dir: /data/results\n", string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("results_dir: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestResultsDir_Precedence(t *testing.T) {
	t.Parallel()

	saved := &Prefs{ResultsDir: "/saved"}

	assert.Equal(t, "/flag", ResultsDir("/flag", "/manifest", saved))
	assert.Equal(t, "/manifest", ResultsDir("", "/manifest", saved))
	assert.Equal(t, "/saved", ResultsDir("", "", saved))
	assert.Equal(t, DefaultResultsFolder, filepath.Base(ResultsDir("", "", nil)))
	assert.Equal(t, DefaultResultsFolder, filepath.Base(ResultsDir("", "", &Prefs{})))
}
