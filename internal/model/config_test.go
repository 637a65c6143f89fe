package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
	assert.Equal(t, 15*time.Second, cfg.Store.Timeout())
	assert.Equal(t, time.Monday, cfg.Display.FirstWeekday())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: Postgres
  timeout_sec: 5
  postgres:
    address: db.internal:6543
    ensure_schema: true
display:
  week_start: Sunday
`), 0o644))

	t.Setenv("SADHANA_STORE_POSTGRES_DATABASE", "habits")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout())
	assert.Equal(t, "db.internal:6543", cfg.Store.Postgres.Address)
	assert.Equal(t, "habits", cfg.Store.Postgres.Database)
	assert.Equal(t, "postgres", cfg.Store.Postgres.User)
	assert.True(t, cfg.Store.Postgres.EnsureSchema)
	assert.Equal(t, time.Sunday, cfg.Display.FirstWeekday())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SADHANA_STORE_BACKEND=rest\nSADHANA_STORE_REST_URL=https://example.supabase.co\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("SADHANA_STORE_BACKEND")
		os.Unsetenv("SADHANA_STORE_REST_URL")
	})

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendREST, cfg.Store.Backend)
	assert.Equal(t, "https://example.supabase.co", cfg.Store.REST.URL)
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: redis\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, `unknown store backend "redis"`)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Store.Backend = BackendFile
	cfg.Display.WeekStart = "sunday"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
