package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeSnapshotSave represents the task type for persisting a
	// collection snapshot
	TaskTypeSnapshotSave = "snapshot_save"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
