package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Server.APIKey = "secret"
	cfg.Output.Overwrite = true

	require.NoError(t, SaveConfig(cfg, path))
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBootstrapConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := BootstrapConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Server.APIKey, 64) // 32 random bytes, hex encoded
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.APIKey, loaded.Server.APIKey)
}

func TestGenerateAPIKey(t *testing.T) {
	first, err := GenerateAPIKey(16)
	require.NoError(t, err)
	second, err := GenerateAPIKey(16)
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}
