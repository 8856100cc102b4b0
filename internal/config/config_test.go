package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "ecocart", cfg.Storage.KeyPrefix)
	assert.Equal(t, time.Second, cfg.Auth.LoginDelay)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 10000, cfg.Sessions.MaxCached)
	assert.Equal(t, 5*time.Second, cfg.Sessions.LoadTimeout)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("AUTH_LOGIN_DELAY", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://shop.example , ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.LoginDelay)
	assert.Equal(t, []string{"https://shop.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "localstorage")
		_, err := Load()
		assert.ErrorContains(t, err, "STORAGE_BACKEND")
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_TTL", "forever")
		_, err := Load()
		assert.ErrorContains(t, err, "AUTH_TOKEN_TTL")
	})

	t.Run("session cache size", func(t *testing.T) {
		t.Setenv("SESSION_MAX_CACHED", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "SESSION_MAX_CACHED")
	})
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\nDB_NAME=fromfile\n"), 0o600))
	t.Setenv("DB_NAME", "fromenv")
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")

	loaded := LoadDotEnv()
	assert.Equal(t, []string{".env"}, loaded)
	assert.Equal(t, "9090", os.Getenv("SERVER_PORT"))
	assert.Equal(t, "fromenv", os.Getenv("DB_NAME"))
}
