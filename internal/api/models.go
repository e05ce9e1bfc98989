package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/recall-api/internal/domain"
)

// CreateCardRequest represents the request body for creating a card.
type CreateCardRequest struct {
	Front          string   `json:"front" validate:"required"`
	Back           string   `json:"back" validate:"required"`
	Type           string   `json:"type"`
	Difficulty     string   `json:"difficulty"`
	Tags           []string `json:"tags"`
	SourceNoteID   string   `json:"source_note_id"`
	SourcePlatform string   `json:"source_platform"`
	SourceURL      string   `json:"source_url"`
}

// toSpec converts the request to a domain card spec. Unknown type and
// difficulty values are normalized to defaults, matching import behavior.
func (req CreateCardRequest) toSpec() domain.CardSpec {
	spec := domain.CardSpec{
		Front:          req.Front,
		Back:           req.Back,
		Type:           domain.CardType(req.Type),
		Difficulty:     domain.Difficulty(req.Difficulty),
		Tags:           req.Tags,
		SourceNoteID:   req.SourceNoteID,
		SourcePlatform: domain.SourcePlatform(req.SourcePlatform),
		SourceURL:      req.SourceURL,
	}
	spec.Normalize()
	return spec
}

// BatchCreateCardsRequest represents the request body for creating
// several cards atomically.
type BatchCreateCardsRequest struct {
	Cards []CreateCardRequest `json:"cards" validate:"required,min=1,dive"`
}

// UpdateCardRequest represents a partial card update. Only non-nil
// fields are applied.
type UpdateCardRequest struct {
	Front          *string   `json:"front"`
	Back           *string   `json:"back"`
	Type           *string   `json:"type"`
	Difficulty     *string   `json:"difficulty"`
	Tags           *[]string `json:"tags"`
	SourceNoteID   *string   `json:"source_note_id"`
	SourcePlatform *string   `json:"source_platform"`
	SourceURL      *string   `json:"source_url"`
}

// ReviewCardRequest represents the request body for rating a card
// outside a session.
type ReviewCardRequest struct {
	Quality int `json:"quality" validate:"gte=0,lte=5"`
}

// StartSessionRequest represents the request body for starting a
// review session. With no card IDs the session covers all due cards.
type StartSessionRequest struct {
	CardIDs []uuid.UUID `json:"card_ids"`
}

// SubmitAnswerRequest represents the request body for answering the
// current session card.
type SubmitAnswerRequest struct {
	Quality        int   `json:"quality" validate:"gte=0,lte=5"`
	ResponseTimeMs int64 `json:"response_time_ms" validate:"gte=0"`
}

// GenerateCardsRequest represents the request body for generating
// cards from source text.
type GenerateCardsRequest struct {
	SourceText string   `json:"source_text" validate:"required"`
	Platform   string   `json:"platform"`
	SourceURL  string   `json:"source_url"`
	NoteID     string   `json:"note_id"`
	MaxCards   int      `json:"max_cards" validate:"gte=0"`
	Tags       []string `json:"tags"`
}

// ImportCollectionRequest represents the request body for replacing
// the whole collection with previously exported cards.
type ImportCollectionRequest struct {
	Cards []*domain.Flashcard `json:"cards" validate:"required"`
}

// SessionResponse represents the review session state returned by the
// session endpoints.
type SessionResponse struct {
	SessionID         uuid.UUID  `json:"session_id"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CardsReviewed     int        `json:"cards_reviewed"`
	CorrectAnswers    int        `json:"correct_answers"`
	AverageResponseMs int64      `json:"average_response_ms"`
	QueueSize         int        `json:"queue_size"`
	Position          int        `json:"position"`
}

// SubmitAnswerResponse pairs the rescheduled card with the updated
// session state.
type SubmitAnswerResponse struct {
	Card    *domain.Flashcard `json:"card"`
	Session SessionResponse   `json:"session"`
}

// ExportResponse represents the exported collection.
type ExportResponse struct {
	ExportedAt time.Time           `json:"exported_at"`
	Cards      []*domain.Flashcard `json:"cards"`
}
