// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// LLM defaults for users who have not picked their own provider/model.
	// API keys are per user and never come from the environment.
	LLMProvider      string // "openai" or "anthropic"
	LLMModel         string
	OpenAIBaseURL    string
	AnthropicBaseURL string
	LLMTimeout       time.Duration

	// Retry policy applied to every LLM call.
	RetryAttempts int
	RetryDelay    time.Duration

	// Per-IP requests per minute on the generation endpoints.
	AIRateLimit int

	// Lifetime of cached preview documents.
	PreviewTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory,
// when present, is loaded first; real environment variables win over it.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sitebuilder"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "sitebuilder"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		LLMProvider:      envOrDefault("LLM_PROVIDER", "openai"),
		LLMModel:         envOrDefault("LLM_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
	}

	var err error
	if cfg.LLMTimeout, err = envDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts, err = envInt("LLM_RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = envDuration("LLM_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.AIRateLimit, err = envInt("AI_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.PreviewTTL, err = envDuration("PREVIEW_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("LLM_RETRY_ATTEMPTS must be at least 1, got %d", cfg.RetryAttempts)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	slog.Debug("configuration loaded", "env", cfg.Env, "llm_provider", cfg.LLMProvider, "llm_model", cfg.LLMModel)
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// envDuration accepts Go durations ("1s", "750ms") or a bare number of
// milliseconds.
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
