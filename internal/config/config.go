package config

import (
	"os"
	"strconv"
	"time"

	"revkit/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Output OutputConfig
	Fetch  FetchConfig
	DB     DatabaseConfig
}

// OutputConfig holds file system paths for processed workbooks
type OutputConfig struct {
	Dir string
}

// FetchConfig holds HTTP client settings for the publisher downloads
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// DatabaseConfig holds run-archive connection settings. The archive is
// optional: when URL is empty, runs are not recorded.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables, after a best-effort
// .env bootstrap, and validates it.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "data/processed"),
		},
		Fetch: FetchConfig{
			Timeout:   getEnvDurationOrDefault("FETCH_TIMEOUT", 60*time.Second),
			UserAgent: getEnvOrDefault("FETCH_USER_AGENT", "revkit/1.0"),
		},
		DB: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if config.Output.Dir == "" {
		return nil, errors.ConfigInvalid("OUTPUT_DIR cannot be empty")
	}
	if config.Fetch.Timeout <= 0 {
		return nil, errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
