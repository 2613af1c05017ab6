package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/asklokesh/NEXT-Portal-sub011/pkg/version"
)

// Config holds all application configuration
type Config struct {
	// Logging
	LogLevel string

	// Cache sizing
	VersionCacheSize int
	GuideCacheSize   int

	// Concurrency for batch compatibility checks
	CheckWorkers int

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel:         getEnv("COMPAT_LOG_LEVEL", "info"),
		VersionCacheSize: getEnvInt("COMPAT_VERSION_CACHE_SIZE", version.DefaultCacheSize),
		GuideCacheSize:   getEnvInt("COMPAT_GUIDE_CACHE_SIZE", 512),
		CheckWorkers:     getEnvInt("COMPAT_CHECK_WORKERS", 4),
		MetricsEnabled:   getEnvBool("COMPAT_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.VersionCacheSize <= 0 {
		return fmt.Errorf("version cache size must be positive, got %d", c.VersionCacheSize)
	}
	if c.GuideCacheSize <= 0 {
		return fmt.Errorf("guide cache size must be positive, got %d", c.GuideCacheSize)
	}
	if c.CheckWorkers <= 0 {
		return fmt.Errorf("check workers must be positive, got %d", c.CheckWorkers)
	}
	return nil
}

// ParsedLogLevel returns the logrus level for the configured log level.
// Validate must have passed.
func (c *Config) ParsedLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
