package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/recall-api/internal/config"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/events"
	"github.com/phrazzld/recall-api/internal/generation"
	"github.com/phrazzld/recall-api/internal/platform/gemini"
	"github.com/phrazzld/recall-api/internal/platform/postgres"
	"github.com/phrazzld/recall-api/internal/service/review"
	"github.com/phrazzld/recall-api/internal/store"
	"github.com/phrazzld/recall-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	cardStore     *store.FlashcardStore
	snapshotStore store.SnapshotStore

	// Service interfaces
	srsService     srs.Service
	sessionService review.ReviewSessionService
	generator      generation.Generator

	// Event system
	eventEmitter events.Emitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize the SM-2 scheduler with any configured overrides
	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:       cfg.SRS.MinEaseFactor,
		PassQuality:         cfg.SRS.PassQuality,
		FailureIntervalDays: cfg.SRS.FailureIntervalDays,
		FirstIntervalDays:   cfg.SRS.FirstIntervalDays,
		SecondIntervalDays:  cfg.SRS.SecondIntervalDays,
	}))

	// Initialize event emitter and stores
	app.eventEmitter = events.NewInMemoryEmitter(logger)
	app.cardStore = store.NewFlashcardStore(app.srsService, app.eventEmitter, logger)
	app.snapshotStore = postgres.NewPostgresSnapshotStore(db, logger)

	// Load the persisted collection before the snapshot handler is
	// registered, so the restore itself does not trigger a save.
	if err := app.restoreCollection(ctx); err != nil {
		return nil, err
	}

	// Initialize task runner
	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	// Wire collection change events to background snapshot persistence
	snapshotHandler, err := task.NewSnapshotEventHandler(
		app.taskRunner,
		app.cardStore,
		app.snapshotStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot event handler: %w", err)
	}
	if emitter, ok := app.eventEmitter.(*events.InMemoryEmitter); ok {
		emitter.RegisterHandler(snapshotHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register snapshot handler")
	}

	// Initialize the review session service
	app.sessionService = review.NewSessionService(app.cardStore, app.srsService, logger)

	// Card generation is optional: without an API key the endpoint
	// reports itself unavailable.
	if cfg.LLM.GeminiAPIKey != "" {
		app.generator, err = gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		logger.Info("LLM generator initialized successfully")
	} else {
		logger.Info("LLM generator disabled: no API key configured")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// restoreCollection loads the latest persisted snapshot into the card
// store. A missing snapshot means a fresh install and is not an error.
func (app *application) restoreCollection(ctx context.Context) error {
	snapshot, err := app.snapshotStore.LoadLatest(ctx)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		app.logger.Info("no persisted collection found, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load persisted collection: %w", err)
	}

	app.cardStore.Restore(ctx, snapshot)
	app.logger.Info("collection restored from snapshot",
		"card_count", len(snapshot.Cards),
		"taken_at", snapshot.TakenAt)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop task runner first so in-flight snapshot saves finish
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	// Final synchronous save so the latest state survives restarts
	if app.cardStore != nil && app.snapshotStore != nil {
		if err := app.snapshotStore.Save(context.Background(), app.cardStore.Snapshot()); err != nil {
			app.logger.Error("Final snapshot save failed", "error", err)
		}
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
