package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/store"
)

// sessionService is the default ReviewSessionService implementation.
// It holds at most one active session at a time; starting a new one
// replaces the old without recording it.
type sessionService struct {
	mu         sync.Mutex
	collection CardCollection
	srsService srs.Service
	logger     *slog.Logger
	now        func() time.Time

	session *domain.ReviewSession
	queue   []uuid.UUID
	cursor  int
}

// NewSessionService creates a ReviewSessionService backed by the given
// card collection.
func NewSessionService(collection CardCollection, srsService srs.Service, logger *slog.Logger) ReviewSessionService {
	if collection == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("review: card collection is required")
	}
	if srsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("review: srs service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		collection: collection,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "review_session_service")),
		now:        time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, cardIDs []uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.logger.InfoContext(ctx, "discarding active session for a new one",
			slog.String("old_session_id", s.session.ID.String()))
	}

	now := s.now()
	var queue []uuid.UUID
	if len(cardIDs) > 0 {
		// Unknown IDs are dropped rather than failing the whole start.
		queue = make([]uuid.UUID, 0, len(cardIDs))
		for _, id := range cardIDs {
			if _, ok := s.collection.GetCard(id); ok {
				queue = append(queue, id)
			}
		}
	} else {
		due := s.collection.DueCards(now)
		queue = make([]uuid.UUID, 0, len(due))
		for _, card := range due {
			queue = append(queue, card.ID)
		}
	}

	session := domain.NewReviewSession(now)
	s.session = session
	s.queue = queue
	s.cursor = 0

	s.logger.InfoContext(ctx, "review session started",
		slog.String("session_id", session.ID.String()),
		slog.Int("queue_size", len(queue)))

	return s.stateLocked(), nil
}

func (s *sessionService) CurrentCard(ctx context.Context) (*domain.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.currentIDLocked()
	if err != nil {
		return nil, err
	}
	card, ok := s.collection.GetCard(id)
	if !ok {
		// The card was deleted mid-session; the queue keeps its slot.
		return nil, fmt.Errorf("card %s in session queue: %w", id, store.ErrCardNotFound)
	}
	return card, nil
}

func (s *sessionService) Next(ctx context.Context) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoActiveSession
	}
	if s.cursor < len(s.queue)-1 {
		s.cursor++
	}
	return s.stateLocked(), nil
}

func (s *sessionService) Previous(ctx context.Context) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoActiveSession
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return s.stateLocked(), nil
}

func (s *sessionService) SubmitReview(ctx context.Context, quality int, responseTime time.Duration) (*domain.Flashcard, *SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.currentIDLocked()
	if err != nil {
		return nil, nil, err
	}

	card, err := s.collection.ReviewCard(ctx, id, quality)
	if err != nil {
		return nil, nil, fmt.Errorf("submitting review for card %s: %w", id, err)
	}

	s.session.RecordReview(s.srsService.IsPassing(quality), responseTime)

	s.logger.DebugContext(ctx, "review submitted",
		slog.String("session_id", s.session.ID.String()),
		slog.String("card_id", id.String()),
		slog.Int("quality", quality))

	return card, s.stateLocked(), nil
}

func (s *sessionService) End(ctx context.Context) (*domain.ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoActiveSession
	}

	s.session.Complete(s.now())
	finished := *s.session
	s.session = nil
	s.queue = nil
	s.cursor = 0

	s.logger.InfoContext(ctx, "review session ended",
		slog.String("session_id", finished.ID.String()),
		slog.Int("cards_reviewed", finished.CardsReviewed),
		slog.Int("correct_answers", finished.CorrectAnswers))

	return &finished, nil
}

func (s *sessionService) Active(ctx context.Context) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoActiveSession
	}
	return s.stateLocked(), nil
}

// currentIDLocked resolves the queue entry under the cursor.
// Caller must hold s.mu.
func (s *sessionService) currentIDLocked() (uuid.UUID, error) {
	if s.session == nil {
		return uuid.Nil, ErrNoActiveSession
	}
	if len(s.queue) == 0 {
		return uuid.Nil, ErrEmptySession
	}
	return s.queue[s.cursor], nil
}

// stateLocked snapshots the session for callers. Caller must hold s.mu.
func (s *sessionService) stateLocked() *SessionState {
	return &SessionState{
		Session:   *s.session,
		QueueSize: len(s.queue),
		Position:  s.cursor,
	}
}
