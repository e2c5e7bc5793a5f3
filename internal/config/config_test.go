package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "QUESTIFY_DB", "QUESTIFY_ADDR", "QUESTIFY_LOG", "QUESTIFY_JWT_SECRET",
		"QUESTIFY_BASE_URL", "QUESTIFY_RATE_RPS", "QUESTIFY_RATE_BURST",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr: ":9000"
database: data/questify.db
base_url: https://questify.example
rate_limit:
  rps: 5
  burst: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "data/questify.db", cfg.Database)
	assert.Equal(t, "https://questify.example", cfg.BaseURL)
	assert.Equal(t, RateLimit{RPS: 5, Burst: 20}, cfg.RateLimit)
}

func TestEmptyEnvKeepsFileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log_file: questify.log\nbase_url: https://questify.example\n")

	t.Setenv("QUESTIFY_LOG", "")
	t.Setenv("QUESTIFY_BASE_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "questify.log", cfg.LogFile)
	assert.Equal(t, "https://questify.example", cfg.BaseURL)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "addr: \":9000\"\ndatabase: file.db\n")

	t.Setenv("QUESTIFY_ADDR", ":7000")
	t.Setenv("DATABASE_URL", "postgres://localhost/questify")
	t.Setenv("QUESTIFY_JWT_SECRET", "s3cret")
	t.Setenv("QUESTIFY_RATE_RPS", "0.5")
	t.Setenv("QUESTIFY_RATE_BURST", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "postgres://localhost/questify", cfg.Database)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, RateLimit{RPS: 0.5, Burst: 3}, cfg.RateLimit)
}

func TestQuestifyDBWinsOverDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/questify")
	t.Setenv("QUESTIFY_DB", "local.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.Database)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeConfig(t, "addr: [unterminated"))
		assert.ErrorContains(t, err, "parsing config")
	})
	t.Run("bad rps", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("QUESTIFY_RATE_RPS", "fast")
		_, err := Load("")
		assert.ErrorContains(t, err, "QUESTIFY_RATE_RPS")
	})
	t.Run("bad burst", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("QUESTIFY_RATE_BURST", "1.5")
		_, err := Load("")
		assert.ErrorContains(t, err, "QUESTIFY_RATE_BURST")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"no addr", func(c *Config) { c.Addr = "" }},
		{"no database", func(c *Config) { c.Database = "" }},
		{"zero rps", func(c *Config) { c.RateLimit.RPS = 0 }},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
