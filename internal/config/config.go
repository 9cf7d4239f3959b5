// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Exchange rates
	FXBaseURL       string
	FXTTL           time.Duration
	FXFetchTimeout  time.Duration
	DefaultCurrency string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/settleup.db"),

		FXBaseURL:       getEnv("FX_BASE_URL", "https://api.exchangerate-api.com/v4/latest/"),
		FXTTL:           getEnvDuration("FX_TTL", time.Hour),
		FXFetchTimeout:  getEnvDuration("FX_FETCH_TIMEOUT", 5*time.Second),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.FXTTL <= 0 {
		return fmt.Errorf("FX_TTL must be positive")
	}
	if c.FXFetchTimeout <= 0 {
		return fmt.Errorf("FX_FETCH_TIMEOUT must be positive")
	}
	if money.GetCurrency(c.DefaultCurrency) == nil {
		return fmt.Errorf("unknown DEFAULT_CURRENCY: %q", c.DefaultCurrency)
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
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
