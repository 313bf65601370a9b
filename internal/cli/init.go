// Package cli provides common initialization utilities shared by
// cmd/budgetbook and cmd/budgetbook-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"budgetbook/internal/config"
	"budgetbook/internal/log"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
	"budgetbook/internal/storage/memory"
)

// Backend interface conformance checks for the store implementations
// selectable through DATA_BACKEND.
var (
	_ services.Store = (*storage.SQLiteRepository)(nil)
	_ services.Store = (*memory.Store)(nil)
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the store selected by cfg.DataBackend.
// Returns the store or exits the process on failure.
func InitStore(logger *log.Logger, cfg *config.Config) services.Store {
	switch cfg.DataBackend {
	case "memory":
		logger.Info("Using in-memory store")
		return memory.New()
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		return repo
	}
}
