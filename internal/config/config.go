package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBPath string

	// Sync
	SyncListenAddr  string
	SyncGracePeriod time.Duration
	AMQPURL         string

	// Receipt scanning
	GeminiAPIKey string
	GeminiModel  string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath: getEnv("MONETUS_DB_PATH", "./data/monetus.db"),

		SyncListenAddr:  getEnv("MONETUS_SYNC_LISTEN_ADDR", ":7365"),
		SyncGracePeriod: getEnvDuration("MONETUS_SYNC_GRACE_PERIOD", 2*time.Second),
		AMQPURL:         getEnv("MONETUS_AMQP_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		LogLevel: getEnv("MONETUS_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	if _, _, err := net.SplitHostPort(c.SyncListenAddr); err != nil {
		problems = append(problems, fmt.Sprintf("invalid sync listen address '%s': %v", c.SyncListenAddr, err))
	}

	if c.SyncGracePeriod < 0 {
		problems = append(problems, fmt.Sprintf("invalid sync grace period %v: cannot be negative", c.SyncGracePeriod))
	} else if c.SyncGracePeriod > time.Minute {
		problems = append(problems, fmt.Sprintf("invalid sync grace period %v: must be at most 1 minute", c.SyncGracePeriod))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
