package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
engine:
  fact_limit: 500
  query_timeout: 5s
store:
  database_path: /tmp/pod2.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Engine.FactLimit)
	assert.Equal(t, "5s", cfg.Engine.QueryTimeout)
	assert.Equal(t, "/tmp/pod2.db", cfg.Store.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  fact_limit: 500\n"), 0644))

	t.Setenv("POD2_FACT_LIMIT", "42")
	t.Setenv("POD2_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Engine.FactLimit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	t.Run("rejects non-positive fact limit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.FactLimit = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects malformed timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.QueryTimeout = "soon"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("accepts defaults", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})
}

func TestEngineLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.FactLimit = 1234
	cfg.Engine.QueryTimeout = "2m"

	limits := cfg.EngineLimits()
	assert.Equal(t, 1234, limits.FactLimit)
	assert.Equal(t, 2*time.Minute, limits.QueryTimeout)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Engine.FactLimit = 777
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
