// Package review implements the review session workflow: a single
// active session walking a queue of cards, submitting answers, and
// accumulating session statistics.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/recall-api/internal/domain"
)

// Common errors returned by the review session service.
var (
	// ErrNoActiveSession indicates a session operation was attempted
	// while no session is running.
	ErrNoActiveSession = errors.New("no active review session")

	// ErrEmptySession indicates the active session has no cards to review.
	ErrEmptySession = errors.New("review session has no cards")
)

// CardCollection is the slice of the card store the session service
// needs: lookups, due-card selection, and answer submission.
type CardCollection interface {
	// GetCard retrieves a single card by ID.
	GetCard(id uuid.UUID) (*domain.Flashcard, bool)

	// DueCards returns the cards due for review at the given time,
	// newest first.
	DueCards(now time.Time) []*domain.Flashcard

	// ReviewCard applies a quality rating to a card and reschedules it.
	ReviewCard(ctx context.Context, id uuid.UUID, quality int) (*domain.Flashcard, error)
}

// SessionState is a point-in-time view of the active session handed
// back to callers. Position is the zero-based cursor into the queue.
type SessionState struct {
	Session   domain.ReviewSession
	QueueSize int
	Position  int
}

// ReviewSessionService manages the lifecycle of the single active
// review session.
type ReviewSessionService interface {
	// Start begins a new session over the given card IDs, or over all
	// currently due cards when cardIDs is empty. IDs that do not
	// resolve to a card are dropped. Starting while a session is
	// active discards the old session without recording it.
	Start(ctx context.Context, cardIDs []uuid.UUID) (*SessionState, error)

	// CurrentCard returns the card under the session cursor.
	CurrentCard(ctx context.Context) (*domain.Flashcard, error)

	// Next advances the cursor, clamping at the last card.
	Next(ctx context.Context) (*SessionState, error)

	// Previous moves the cursor back, clamping at the first card.
	Previous(ctx context.Context) (*SessionState, error)

	// SubmitReview rates the current card, reschedules it, and records
	// the outcome in the session statistics. The cursor stays where it
	// is; callers navigate with Next.
	SubmitReview(ctx context.Context, quality int, responseTime time.Duration) (*domain.Flashcard, *SessionState, error)

	// End completes the active session and returns its final record.
	End(ctx context.Context) (*domain.ReviewSession, error)

	// Active reports the current session state, or ErrNoActiveSession.
	Active(ctx context.Context) (*SessionState, error)
}
