package store

import (
	"context"
	"time"

	"github.com/phrazzld/recall-api/internal/domain"
)

// CollectionSnapshot is a wholesale copy of the flashcard collection,
// taken after a mutation and handed to the persistence collaborator.
// There is no incremental or delta persistence: every save replaces the
// previous snapshot in full.
type CollectionSnapshot struct {
	TakenAt time.Time           `json:"taken_at"`
	Cards   []*domain.Flashcard `json:"cards"`
}

// SnapshotStore defines the interface for snapshot persistence.
// Implementations live under internal/platform.
type SnapshotStore interface {
	// Save persists the snapshot, replacing whatever was saved before.
	Save(ctx context.Context, snapshot *CollectionSnapshot) error

	// LoadLatest retrieves the most recently saved snapshot.
	// Returns ErrSnapshotNotFound if nothing has been saved yet.
	LoadLatest(ctx context.Context) (*CollectionSnapshot, error)
}
