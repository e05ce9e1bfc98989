package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple implementation of the Emitter interface
// that stores registered handlers in memory and dispatches events to them.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "in_memory_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEmitter) EmitEvent(ctx context.Context, event *ChangeEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting event",
		"event_id", event.ID,
		"reason", event.Reason,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := e.dispatch(ctx, handler, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"reason", event.Reason)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// dispatch invokes a single handler, converting a handler panic into an
// error so one misbehaving handler cannot unwind into the emitting code.
func (e *InMemoryEmitter) dispatch(ctx context.Context, handler Handler, event *ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
