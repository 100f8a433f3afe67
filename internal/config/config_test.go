package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at an explicit missing-file-free directory so a developer's
	// local config.yaml cannot leak into the test.
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "./data/userboard.db", cfg.Storage.Path)
	assert.Equal(t, "WAL", cfg.Storage.JournalMode)
	assert.Equal(t, 5000, cfg.Storage.BusyTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
storage:
  driver: memory
logging:
  level: debug
  format: json
metrics:
  enabled: true
  addr: "127.0.0.1:9191"
`))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9191", cfg.Metrics.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("USERBOARD_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: postgres\n"))
	assert.ErrorContains(t, err, "unknown storage driver")

	_, err = Load(writeConfig(t, "logging:\n  format: xml\n"))
	assert.ErrorContains(t, err, "unknown logging format")

	_, err = Load(writeConfig(t, "storage:\n  driver: sqlite\n  path: \"\"\n"))
	assert.ErrorContains(t, err, "storage.path is required")
}

// writeConfig writes a YAML config into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
