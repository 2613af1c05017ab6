package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}
			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	if got := getEnvInt("TEST_INT_NOT_SET", 7); got != 7 {
		t.Errorf("getEnvInt default = %d, want 7", got)
	}

	os.Setenv("TEST_INT_BAD", "not-a-number")
	defer os.Unsetenv("TEST_INT_BAD")
	if got := getEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getEnvInt on unparsable value = %d, want default 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"yes", false},
	}

	for _, tt := range tests {
		os.Setenv("TEST_BOOL", tt.value)
		if got := getEnvBool("TEST_BOOL", false); got != tt.want {
			t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	os.Unsetenv("TEST_BOOL")

	if got := getEnvBool("TEST_BOOL_NOT_SET", true); !got {
		t.Error("getEnvBool default = false, want true")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.VersionCacheSize != 4096 {
		t.Errorf("VersionCacheSize = %d, want 4096", cfg.VersionCacheSize)
	}
	if cfg.GuideCacheSize != 512 {
		t.Errorf("GuideCacheSize = %d, want 512", cfg.GuideCacheSize)
	}
	if cfg.CheckWorkers != 4 {
		t.Errorf("CheckWorkers = %d, want 4", cfg.CheckWorkers)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	os.Setenv("COMPAT_LOG_LEVEL", "debug")
	os.Setenv("COMPAT_VERSION_CACHE_SIZE", "128")
	os.Setenv("COMPAT_CHECK_WORKERS", "8")
	os.Setenv("COMPAT_METRICS_ENABLED", "false")
	defer func() {
		os.Unsetenv("COMPAT_LOG_LEVEL")
		os.Unsetenv("COMPAT_VERSION_CACHE_SIZE")
		os.Unsetenv("COMPAT_CHECK_WORKERS")
		os.Unsetenv("COMPAT_METRICS_ENABLED")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.VersionCacheSize != 128 {
		t.Errorf("VersionCacheSize = %d, want 128", cfg.VersionCacheSize)
	}
	if cfg.CheckWorkers != 8 {
		t.Errorf("CheckWorkers = %d, want 8", cfg.CheckWorkers)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
	if cfg.ParsedLogLevel() != logrus.DebugLevel {
		t.Errorf("ParsedLogLevel = %v, want debug", cfg.ParsedLogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero cache size", func(c *Config) { c.VersionCacheSize = 0 }, true},
		{"negative guide cache", func(c *Config) { c.GuideCacheSize = -1 }, true},
		{"zero workers", func(c *Config) { c.CheckWorkers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LogLevel:         "info",
				VersionCacheSize: 4096,
				GuideCacheSize:   512,
				CheckWorkers:     4,
				MetricsEnabled:   true,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
