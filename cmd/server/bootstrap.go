package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/learning-tracker/internal/config"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/platform/postgres"
)

// loadConfigAndLogger loads configuration and sets up structured logging
// using the configured log level.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))
	return cfg, log, nil
}

// openDatabase loads config, logger and a verified database connection.
// The caller closes the returned *sql.DB.
func openDatabase(ctx context.Context) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
