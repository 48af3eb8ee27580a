// Package cli consolidates the initialization every monetus command
// repeats: env loading, structured logging, config, and the store handle
// that is constructed once and passed down by reference.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"monetus/internal/config"
	"monetus/internal/storage"
)

// LoadEnvFile loads .env for local development; absence is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger installs a text slog handler at the given level and returns
// it as the default logger.
func SetupLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}

// MustLoadConfig loads and validates configuration, exiting on failure.
func MustLoadConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// MustOpenStore opens the ledger store, exiting on failure. The returned
// handle lives for the whole process; callers defer Close.
func MustOpenStore(logger *slog.Logger, cfg *config.Config) *storage.Repository {
	store, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open ledger store", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	return store
}
