package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/recall-api/internal/store"
)

// SnapshotSource produces the current collection snapshot. The
// FlashcardStore satisfies this.
type SnapshotSource interface {
	Snapshot() *store.CollectionSnapshot
}

// SnapshotSaveTask captures the collection at execution time and
// writes it to the snapshot store. Taking the snapshot inside Execute
// rather than at enqueue time means a burst of queued tasks collapses
// into writes of the same latest state.
type SnapshotSaveTask struct {
	id     uuid.UUID
	source SnapshotSource
	sink   store.SnapshotStore
}

// NewSnapshotSaveTask creates a snapshot persistence task.
func NewSnapshotSaveTask(source SnapshotSource, sink store.SnapshotStore) (*SnapshotSaveTask, error) {
	if source == nil {
		return nil, fmt.Errorf("snapshot source cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("snapshot sink cannot be nil")
	}
	return &SnapshotSaveTask{
		id:     uuid.New(),
		source: source,
		sink:   sink,
	}, nil
}

// ID returns the task's unique identifier
func (t *SnapshotSaveTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *SnapshotSaveTask) Type() string {
	return TaskTypeSnapshotSave
}

// Execute takes a fresh snapshot and persists it.
func (t *SnapshotSaveTask) Execute(ctx context.Context) error {
	snapshot := t.source.Snapshot()
	if err := t.sink.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("saving collection snapshot: %w", err)
	}
	return nil
}
