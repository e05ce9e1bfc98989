package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/recall-api/internal/platform/logger"
	"github.com/phrazzld/recall-api/internal/store"
)

// PostgresSnapshotStore implements the store.SnapshotStore interface
// using a PostgreSQL database as the storage backend. The collection
// is persisted as a single JSONB document; each save replaces the
// previous one.
type PostgresSnapshotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the
// SnapshotStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSnapshotStore(db store.DBTX, logger *slog.Logger) *PostgresSnapshotStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// Save implements store.SnapshotStore.Save. The snapshot row uses a
// fixed key so the upsert always replaces the previous collection.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snapshot *store.CollectionSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if snapshot == nil {
		return store.NewStoreError("save_snapshot", "snapshot cannot be nil", nil)
	}

	payload, err := json.Marshal(snapshot.Cards)
	if err != nil {
		return store.NewStoreError("save_snapshot", "encoding cards", err)
	}

	query := `
		INSERT INTO collection_snapshots (id, taken_at, cards)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET taken_at = EXCLUDED.taken_at, cards = EXCLUDED.cards`

	if _, err := s.db.ExecContext(ctx, query, snapshot.TakenAt, payload); err != nil {
		return store.NewStoreError("save_snapshot", "writing snapshot row", err)
	}

	log.DebugContext(ctx, "collection snapshot saved",
		slog.Int("card_count", len(snapshot.Cards)),
		slog.Time("taken_at", snapshot.TakenAt))

	return nil
}

// LoadLatest implements store.SnapshotStore.LoadLatest.
func (s *PostgresSnapshotStore) LoadLatest(ctx context.Context) (*store.CollectionSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var snapshot store.CollectionSnapshot
	var payload []byte

	query := `SELECT taken_at, cards FROM collection_snapshots WHERE id = 1`
	err := s.db.QueryRowContext(ctx, query).Scan(&snapshot.TakenAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("load_snapshot", "reading snapshot row", err)
	}

	if err := json.Unmarshal(payload, &snapshot.Cards); err != nil {
		return nil, store.NewStoreError("load_snapshot", "decoding cards", err)
	}

	log.DebugContext(ctx, "collection snapshot loaded",
		slog.Int("card_count", len(snapshot.Cards)))

	return &snapshot, nil
}

// CheckHealth verifies the snapshot table is reachable.
func (s *PostgresSnapshotStore) CheckHealth(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}
