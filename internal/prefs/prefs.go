// Package prefs persists user preferences between runs in a small YAML file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultResultsFolder is created in the home directory when nothing else
// names a results directory.
const DefaultResultsFolder = "VesselVio Results"

// Prefs is the persisted state.
type Prefs struct {
	ResultsDir string `yaml:"results_dir,omitempty"`
}

// DefaultPath returns <user config dir>/vesselbatch/prefs.yaml. On Linux the
// config dir honors XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate the user config directory: %w", err)
	}
	return filepath.Join(dir, "vesselbatch", "prefs.yaml"), nil
}

// Load reads the preferences at path. A missing file yields empty
// preferences.
func Load(path string) (*Prefs, error) {
	p := &Prefs{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return p, nil
}

// Save writes the preferences to path, creating its directory. The file is
// replaced atomically.
func (p *Prefs) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ResultsDir picks the results directory: the first non-empty of flag,
// manifest and the saved preference, else ~/VesselVio Results.
func ResultsDir(flag, manifest string, p *Prefs) string {
	for _, dir := range []string{flag, manifest} {
		if dir != "" {
			return dir
		}
	}
	if p != nil && p.ResultsDir != "" {
		return p.ResultsDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultResultsFolder
	}
	return filepath.Join(home, DefaultResultsFolder)
}
