// Package config loads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need to start.
type Config struct {
	// BaseURL is where the CLI reaches the ledger-store server.
	BaseURL string

	// Timeout is the per-request timeout for store calls.
	Timeout time.Duration

	// DBPath is the server's SQLite database file.
	DBPath string

	// Port is the server's listen port.
	Port string

	// Locale selects currency/date formatting: en, es or pt.
	Locale string

	// OverpaymentPolicy is "discard" or "reject".
	OverpaymentPolicy string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg := &Config{
		BaseURL:           getEnv("LEDGER_BASE_URL", "http://localhost:8080"),
		Timeout:           getEnvDuration("LEDGER_TIMEOUT", 10*time.Second),
		DBPath:            getEnv("DB_PATH", "./data/ledger.db"),
		Port:              getEnv("PORT", "8080"),
		Locale:            getEnv("LOCALE", "en"),
		OverpaymentPolicy: getEnv("OVERPAYMENT_POLICY", "discard"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects obviously broken settings before anything dials.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("config: LEDGER_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: LEDGER_TIMEOUT must be positive, got %v", c.Timeout)
	}
	switch c.OverpaymentPolicy {
	case "discard", "reject":
	default:
		return fmt.Errorf("config: OVERPAYMENT_POLICY must be discard or reject, got %q", c.OverpaymentPolicy)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using fallback",
			"key", key, "value", value, "fallback", fallback)
		return fallback
	}
	return d
}
