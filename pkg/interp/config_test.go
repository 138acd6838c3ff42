package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
MaxSteps = 500
StartX = 1
StartY = 2
Facing = "east"

[[Dirt]]
X = 3
Y = 3

[[Dirt]]
X = 0
Y = 1
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 500, cfg.MaxSteps)
	require.Equal(t, 1, cfg.StartX)
	require.Equal(t, 2, cfg.StartY)
	require.Equal(t, "east", cfg.Facing)
	require.Equal(t, []Cell{{3, 3}, {0, 1}}, cfg.Dirt)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "StartX = 2\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().MaxSteps, cfg.MaxSteps)
	require.Equal(t, "north", cfg.Facing)
	require.Equal(t, 2, cfg.StartX)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", "MaxStepz = 10\n"},
		{"non-positive budget", "MaxSteps = 0\n"},
		{"unknown facing", "Facing = \"up\"\n"},
		{"malformed toml", "MaxSteps = = 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
