// Package main implements the entry point for the Recall API server,
// which manages spaced repetition flashcards with SM-2 scheduling and
// provides LLM integration for card generation.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/recall-api/internal/config"
	"github.com/phrazzld/recall-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires dependencies, and starts the server.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
