package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.BasePath)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, AuthProviderLocal, cfg.Auth.Provider)
	assert.Equal(t, TokenModePresence, cfg.Auth.TokenMode)
	assert.Equal(t, AIProviderStatic, cfg.AI.Provider)
	assert.Equal(t, 7, cfg.Crisis.SearchDays)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: production
store:
  driver: redis
redis:
  addr: "redis:6379"
jwt:
  secret: from-file
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.edu, https://b.edu")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing jwt secret", body: "store:\n  driver: memory\n"},
		{name: "unknown store driver", body: "store:\n  driver: etcd\njwt:\n  secret: s\n"},
		{name: "unknown token mode", body: "auth:\n  token_mode: cookie\njwt:\n  secret: s\n"},
		{name: "bad expiration", body: "jwt:\n  secret: s\n  access_token_expiration: soon\n"},
		{name: "empty search window", body: "jwt:\n  secret: s\ncrisis:\n  search_days: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSetFieldFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("METRICS_ENABLED", "maybe")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "METRICS_ENABLED")
}
