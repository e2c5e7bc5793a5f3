// Package config loads server settings from an optional YAML file, a .env
// file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	LogFile  string `yaml:"log_file"`

	// JWTSecret signs session tokens. When empty the server generates one and
	// keeps it in the database.
	JWTSecret string `yaml:"jwt_secret"`

	// BaseURL is the public address used in share links. When empty it is
	// taken from each request.
	BaseURL string `yaml:"base_url"`

	RateLimit RateLimit `yaml:"rate_limit"`
}

// RateLimit bounds write and auth requests per client IP.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		Database: "questify.sqlite3",
		RateLimit: RateLimit{
			RPS:   2,
			Burst: 10,
		},
	}
}

// Load reads path (if it is set and exists), then applies .env and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DATABASE_URL"); ok && v != "" {
		c.Database = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_DB"); ok && v != "" {
		c.Database = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_LOG"); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_JWT_SECRET"); ok && v != "" {
		c.JWTSecret = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := os.LookupEnv("QUESTIFY_RATE_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing QUESTIFY_RATE_RPS: %w", err)
		}
		c.RateLimit.RPS = rps
	}
	if v, ok := os.LookupEnv("QUESTIFY_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing QUESTIFY_RATE_BURST: %w", err)
		}
		c.RateLimit.Burst = burst
	}
	return nil
}

// Validate checks that the settings can start a server.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address not configured")
	}
	if c.Database == "" {
		return errors.New("database not configured (set QUESTIFY_DB or DATABASE_URL)")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("invalid rate limit: rps=%v burst=%d (both must be positive)", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}
