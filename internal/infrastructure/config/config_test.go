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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins:
    - http://localhost:4000
storage:
  data_root: /tmp/clients
  default_client: acme
matcher:
  min_fuzzy_score: 70
observability:
  logging:
    level: debug
    format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:4000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/clients", cfg.Storage.DataRoot)
	assert.Equal(t, "acme", cfg.Storage.DefaultClient)
	assert.Equal(t, 70, cfg.Matcher.MinFuzzyScore)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_DATA_ROOT", "/var/lib/accountantiq")
	path := writeConfig(t, `
storage:
  data_root: ${TEST_DATA_ROOT}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/accountantiq", cfg.Storage.DataRoot)
}

func TestLoadFillsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Matcher.MinFuzzyScore)
	assert.Equal(t, "data/clients", cfg.Storage.DataRoot)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACCOUNTANTIQ_PORT", "7070")
	t.Setenv("ACCOUNTANTIQ_DATA_ROOT", "/srv/clients")
	t.Setenv("ACCOUNTANTIQ_CLIENT", "northwind")
	t.Setenv("ACCOUNTANTIQ_MIN_FUZZY_SCORE", "55")
	t.Setenv("ACCOUNTANTIQ_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := LoadFromEnv()

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/srv/clients", cfg.Storage.DataRoot)
	assert.Equal(t, "northwind", cfg.Storage.DefaultClient)
	assert.Equal(t, 55, cfg.Matcher.MinFuzzyScore)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
}

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("ACCOUNTANTIQ_PORT", "")
	t.Setenv("ACCOUNTANTIQ_DATA_ROOT", "")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/clients", cfg.Storage.DataRoot)
}

func TestLoadFromEnvInvalidIntFallsBack(t *testing.T) {
	t.Setenv("ACCOUNTANTIQ_PORT", "not-a-number")

	cfg := LoadFromEnv()
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadOrEnvWithPathFallsBack(t *testing.T) {
	t.Setenv("ACCOUNTANTIQ_PORT", "6060")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 6060, cfg.Server.Port)
}
