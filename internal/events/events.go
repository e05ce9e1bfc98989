package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Change reasons emitted by the flashcard store.
const (
	ReasonCardsCreated  = "cards_created"
	ReasonCardUpdated   = "card_updated"
	ReasonCardDeleted   = "card_deleted"
	ReasonCardReviewed  = "card_reviewed"
	ReasonCollectionSet = "collection_set"
)

// ChangeEvent signals that the flashcard collection was mutated and the
// persisted snapshot is now stale.
type ChangeEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Reason describes the mutation that triggered the event.
	Reason string `json:"reason"`

	// CardIDs lists the cards the mutation touched, when applicable.
	CardIDs []uuid.UUID `json:"card_ids,omitempty"`

	// OccurredAt is the timestamp when the event was created.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangeEvent creates a ChangeEvent for the given reason and cards.
func NewChangeEvent(reason string, cardIDs ...uuid.UUID) *ChangeEvent {
	return &ChangeEvent{
		ID:         uuid.New(),
		Reason:     reason,
		CardIDs:    cardIDs,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// Emitter defines an interface for components that can emit events.
// This allows the store to publish events without direct knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ChangeEvent) error
}
