package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "mealcount", cfg.DBName)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Contains(t, cfg.DatabaseDSN(), "host=db.internal port=5433")
}

func TestDockerSecretFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "")
	writeSecret(t, dir, "jwt_secret", "from-secret\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}
