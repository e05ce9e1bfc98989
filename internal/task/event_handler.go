package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/recall-api/internal/events"
	"github.com/phrazzld/recall-api/internal/store"
)

// SnapshotEventHandler reacts to collection change events by queueing
// a snapshot save. It implements events.Handler.
type SnapshotEventHandler struct {
	runner *TaskRunner
	source SnapshotSource
	sink   store.SnapshotStore
	logger *slog.Logger
}

// NewSnapshotEventHandler wires collection change events to background
// snapshot persistence.
func NewSnapshotEventHandler(
	runner *TaskRunner,
	source SnapshotSource,
	sink store.SnapshotStore,
	logger *slog.Logger,
) (*SnapshotEventHandler, error) {
	if runner == nil {
		return nil, fmt.Errorf("task runner cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("snapshot source cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("snapshot sink cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotEventHandler{
		runner: runner,
		source: source,
		sink:   sink,
		logger: logger.With(slog.String("component", "snapshot_event_handler")),
	}, nil
}

// HandleEvent implements events.Handler. Every mutation reason queues
// a save; a full queue is tolerated because a pending task will
// capture this change too.
func (h *SnapshotEventHandler) HandleEvent(ctx context.Context, event *events.ChangeEvent) error {
	t, err := NewSnapshotSaveTask(h.source, h.sink)
	if err != nil {
		return fmt.Errorf("creating snapshot task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		if errors.Is(err, ErrQueueFull) {
			h.logger.WarnContext(ctx, "snapshot queue full, relying on pending saves",
				slog.String("reason", event.Reason))
			return nil
		}
		return fmt.Errorf("queueing snapshot save: %w", err)
	}

	h.logger.DebugContext(ctx, "snapshot save queued",
		slog.String("reason", event.Reason),
		slog.Int("card_count", len(event.CardIDs)))

	return nil
}
