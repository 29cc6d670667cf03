package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{ManifestPath: "batch.hcl"})

	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.ControlPort)
}

func TestNewConfig_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		cfg  Config
	}{
		{name: "missing manifest", cfg: Config{}},
		{name: "bad format", cfg: Config{ManifestPath: "b.hcl", LogFormat: "xml"}},
		{name: "bad level", cfg: Config{ManifestPath: "b.hcl", LogLevel: "trace"}},
		{name: "port too large", cfg: Config{ManifestPath: "b.hcl", ControlPort: 70000}},
		{name: "negative port", cfg: Config{ManifestPath: "b.hcl", ControlPort: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
