package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote tailoring API
	APIBaseURL string

	// Session
	TokenPath string

	// Server
	Port        string
	Environment string
	LogLevel    string
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("TAILOR_API_BASE_URL", "http://localhost:3000/api"),
		TokenPath:   getEnv("AUTH_TOKEN_PATH", defaultTokenPath()),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("TAILOR_API_BASE_URL is required")
	}
	if c.TokenPath == "" {
		return fmt.Errorf("AUTH_TOKEN_PATH is required")
	}
	return nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tailor-console", "auth")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
