package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
listen: ":9000"
timezone: Europe/Kyiv
store_path: /tmp/state.db
nats:
  url: nats://localhost:4222
widgets:
  - group: GPV1.1
    instances: 2
  - group: GPV3.2
metrics: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.Listen)
		assert.Equal(t, "/tmp/state.db", cfg.StorePath)
		require.Len(t, cfg.Widgets, 2)
		assert.Equal(t, 2, cfg.Widgets[0].Instances)
		// Normalize fills the implicit single instance.
		assert.Equal(t, 1, cfg.Widgets[1].Instances)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown group rejected", func(t *testing.T) {
		path := writeConfig(t, "widgets:\n  - group: GPV9.9\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown widget group")
	})

	t.Run("invalid timezone rejected", func(t *testing.T) {
		path := writeConfig(t, "timezone: Mars/Olympus\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("nats without url rejected", func(t *testing.T) {
		path := writeConfig(t, "nats:\n  refresh_subject: x\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("SVITLOGRID_NATS_URL", "nats://override:4222")
		path := writeConfig(t, "listen: \":9000\"\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.NATS)
		assert.Equal(t, "nats://override:4222", cfg.NATS.URL)
	})
}

func TestNormalizeDefaults(t *testing.T) {
	var cfg Config
	cfg.Normalize()

	assert.Equal(t, "127.0.0.1:8090", cfg.Listen)
	assert.Equal(t, "Europe/Kyiv", cfg.Timezone)
	assert.Equal(t, "svitlogrid.db", cfg.StorePath)
}

func TestInit(t *testing.T) {
	t.Run("writes default config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, Init(path, false))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Widgets)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := writeConfig(t, "listen: \":9000\"\n")
		require.Error(t, Init(path, false))
		require.NoError(t, Init(path, true))
	})
}
