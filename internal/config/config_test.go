package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"HOST", "PORT", "SESSION_SECRET", "SESSION_ISSUER", "CORS_ALLOWED_ORIGINS",
	"LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"MIGRATE_ON_START", "ADMIN_EMAIL", "ADMIN_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/setlists")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "Administrator", cfg.Bootstrap.AdminName)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadBuildsURLFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_USER", "band")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "setlists")
	t.Setenv("DB_HOST", "db")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgresql://band:secret@db:5432/setlists?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "postgres://x"}},
		{name: "short secret", env: map[string]string{"DATABASE_URL": "postgres://x", "SESSION_SECRET": "short"}},
		{name: "missing database", env: map[string]string{"SESSION_SECRET": "0123456789abcdef"}},
		{name: "bad port", env: map[string]string{"DATABASE_URL": "postgres://x", "SESSION_SECRET": "0123456789abcdef", "PORT": "http"}},
		{name: "bad level", env: map[string]string{"DATABASE_URL": "postgres://x", "SESSION_SECRET": "0123456789abcdef", "LOG_LEVEL": "trace"}},
		{name: "bad migrate flag", env: map[string]string{"DATABASE_URL": "postgres://x", "SESSION_SECRET": "0123456789abcdef", "MIGRATE_ON_START": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SETLISTS_TEST_A=from-file\nSETLISTS_TEST_B=from-file\n"), 0o600))

	t.Setenv("SETLISTS_TEST_A", "from-env")
	t.Setenv("SETLISTS_TEST_B", "")
	require.NoError(t, os.Unsetenv("SETLISTS_TEST_B"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-env", os.Getenv("SETLISTS_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("SETLISTS_TEST_B"))
	require.NoError(t, os.Unsetenv("SETLISTS_TEST_B"))
}

func TestLoadDatabaseOnly(t *testing.T) {
	clearEnv(t)
	_, err := LoadDatabase()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/setlists")
	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/setlists", db.URL)
}
