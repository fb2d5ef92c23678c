package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendNocoDB, cfg.ConfigStore.Backend)
	assert.Equal(t, 1500, cfg.Chat.TypingDelayMillis)
	assert.Equal(t, 30, cfg.Chat.RequestTimeoutSeconds)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".storefront", "state"), cfg.LocalState.Path)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.ConfigStore.URL = "https://noco.example"
	cfg.ConfigStore.Table = "cfg"
	cfg.Chat.TypingDelayMillis = 10
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://noco.example", got.ConfigStore.URL)
	assert.Equal(t, "cfg", got.ConfigStore.Table)
	assert.Equal(t, 10, got.Chat.TypingDelayMillis)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config_store:\n  url: https://file\n  table: t1\n"), 0600))

	t.Setenv("STOREFRONT_CONFIG_NOCODB_URL", "https://env")
	t.Setenv("STOREFRONT_CONFIG_NOCODB_API_KEY", "secret")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env", cfg.ConfigStore.URL)
	assert.Equal(t, "secret", cfg.ConfigStore.APIKey)
	assert.Equal(t, "t1", cfg.ConfigStore.Table)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("config_store:\n  backend: mysql\n"), 0600))
	_, err := Load(path)
	require.Error(t, err)

	t.Setenv("STOREFRONT_CONFIG_BACKEND", "postgres")
	_, err = Load(path)
	require.Error(t, err, "postgres backend needs a DSN")

	t.Setenv("STOREFRONT_CONFIG_POSTGRES_DSN", "postgres://localhost/db")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.ConfigStore.Backend)

	require.NoError(t, os.WriteFile(path, []byte("chat:\n  typing_delay_ms: -1\n"), 0600))
	_, err = Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(": not yaml ["), 0600))
	_, err = Load(path)
	require.Error(t, err)
}
