package store

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/events"
)

// CardUpdate describes a partial update to a flashcard. Nil fields are
// left untouched. The card's ID, creation time, and scheduling state are
// never part of an update; scheduling state changes only through
// ReviewCard.
type CardUpdate struct {
	Front          *string
	Back           *string
	Type           *domain.CardType
	Difficulty     *domain.Difficulty
	Tags           *[]string
	SourceNoteID   *string
	SourcePlatform *domain.SourcePlatform
	SourceURL      *string
}

// CollectionStats holds the derived statistics for the whole collection.
// They are computed on demand, never maintained incrementally.
type CollectionStats struct {
	Total             int     `json:"total"`
	DueToday          int     `json:"due_today"`
	ReviewedToday     int     `json:"reviewed_today"`
	MasteredCards     int     `json:"mastered_cards"`
	AverageEaseFactor float64 `json:"average_ease_factor"`
}

// FlashcardStore owns the in-memory flashcard collection. All operations
// are serialized behind a single mutex; callers receive clones of the
// stored cards, never references into the collection.
//
// After every mutation the store emits a change event so that a
// persistence collaborator can save a fresh snapshot. The store itself
// never performs I/O.
type FlashcardStore struct {
	mu      sync.Mutex
	cards   []*domain.Flashcard // most-recently-created first
	srs     srs.Service
	emitter events.Emitter
	logger  *slog.Logger

	// now is the clock used for creation and review timestamps.
	// Overridable in tests.
	now func() time.Time
}

// NewFlashcardStore creates an empty store. The emitter may be nil, in
// which case change events are dropped.
func NewFlashcardStore(
	srsService srs.Service,
	emitter events.Emitter,
	logger *slog.Logger,
) *FlashcardStore {
	if srsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("srsService cannot be nil for FlashcardStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardStore{
		cards:   make([]*domain.Flashcard, 0),
		srs:     srsService,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "flashcard_store")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateCard adds a single card built from the given spec. The new card
// is prepended to the collection so the default listing is
// most-recently-created first. The spec is accepted as-is: content
// validation is a concern of the boundary that produced it.
func (s *FlashcardStore) CreateCard(ctx context.Context, spec domain.CardSpec) *domain.Flashcard {
	s.mu.Lock()
	card := domain.NewFlashcard(spec, s.now())
	s.cards = append([]*domain.Flashcard{card}, s.cards...)
	result := card.Clone()
	s.mu.Unlock()

	s.logger.Debug("card created", slog.String("card_id", card.ID.String()))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCardsCreated, card.ID))
	return result
}

// CreateCards adds a batch of cards in one atomic collection update.
// Relative input order is preserved within the batch, and the whole
// batch lands ahead of all existing cards.
func (s *FlashcardStore) CreateCards(
	ctx context.Context,
	specs []domain.CardSpec,
) []*domain.Flashcard {
	if len(specs) == 0 {
		return nil
	}

	s.mu.Lock()
	now := s.now()
	batch := make([]*domain.Flashcard, 0, len(specs))
	ids := make([]uuid.UUID, 0, len(specs))
	results := make([]*domain.Flashcard, 0, len(specs))
	for _, spec := range specs {
		card := domain.NewFlashcard(spec, now)
		batch = append(batch, card)
		ids = append(ids, card.ID)
		results = append(results, card.Clone())
	}
	s.cards = append(batch, s.cards...)
	s.mu.Unlock()

	s.logger.Debug("card batch created", slog.Int("count", len(batch)))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCardsCreated, ids...))
	return results
}

// UpdateCard applies a partial update to the card with the given id.
// A missing id is a silent no-op, reported through the boolean return.
func (s *FlashcardStore) UpdateCard(
	ctx context.Context,
	id uuid.UUID,
	update CardUpdate,
) (*domain.Flashcard, bool) {
	s.mu.Lock()
	card := s.find(id)
	if card == nil {
		s.mu.Unlock()
		return nil, false
	}

	if update.Front != nil {
		card.Front = *update.Front
	}
	if update.Back != nil {
		card.Back = *update.Back
	}
	if update.Type != nil {
		card.Type = *update.Type
	}
	if update.Difficulty != nil {
		card.Difficulty = *update.Difficulty
	}
	if update.Tags != nil {
		card.Tags = append([]string(nil), (*update.Tags)...)
	}
	if update.SourceNoteID != nil {
		card.SourceNoteID = *update.SourceNoteID
	}
	if update.SourcePlatform != nil {
		card.SourcePlatform = *update.SourcePlatform
	}
	if update.SourceURL != nil {
		card.SourceURL = *update.SourceURL
	}
	result := card.Clone()
	s.mu.Unlock()

	s.logger.Debug("card updated", slog.String("card_id", id.String()))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCardUpdated, id))
	return result, true
}

// DeleteCard removes the card with the given id. A missing id is a
// silent no-op. Deleting a card that belongs to an active review
// session's snapshot intentionally leaves the session's id list alone;
// resolving the resulting dangling reference is the session layer's
// concern.
func (s *FlashcardStore) DeleteCard(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	idx := -1
	for i, card := range s.cards {
		if card.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	s.mu.Unlock()

	s.logger.Debug("card deleted", slog.String("card_id", id.String()))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCardDeleted, id))
	return true
}

// ReviewCard applies one review with the given quality score to the card
// with the given id. This is the only code path that mutates scheduling
// state: the SM-2 schedule is computed and the bookkeeping (review
// counters, last-reviewed timestamp) applied in a single critical
// section.
//
// Returns ErrCardNotFound if the card does not exist and
// srs.ErrInvalidQuality if the quality score is out of range.
func (s *FlashcardStore) ReviewCard(
	ctx context.Context,
	id uuid.UUID,
	quality int,
) (*domain.Flashcard, error) {
	s.mu.Lock()
	card := s.find(id)
	if card == nil {
		s.mu.Unlock()
		return nil, ErrCardNotFound
	}

	now := s.now()
	schedule, err := s.srs.NextSchedule(card, quality, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	card.LastReviewed = now
	card.ReviewCount++
	if s.srs.IsPassing(quality) {
		card.CorrectCount++
	}
	card.IntervalDays = schedule.IntervalDays
	card.EaseFactor = schedule.EaseFactor
	card.NextReviewDate = schedule.NextReviewDate
	result := card.Clone()
	s.mu.Unlock()

	s.logger.Debug("card reviewed",
		slog.String("card_id", id.String()),
		slog.Int("quality", quality),
		slog.Int("interval_days", result.IntervalDays),
		slog.Float64("ease_factor", result.EaseFactor))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCardReviewed, id))
	return result, nil
}

// GetCard retrieves a clone of the card with the given id.
func (s *FlashcardStore) GetCard(id uuid.UUID) (*domain.Flashcard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.find(id)
	if card == nil {
		return nil, false
	}
	return card.Clone(), true
}

// ListCards returns the whole collection, most-recently-created first.
func (s *FlashcardStore) ListCards() []*domain.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneAll(s.cards)
}

// DueCards returns every card whose next review date is at or before
// the given time. The set is computed at query time, never cached.
func (s *FlashcardStore) DueCards(now time.Time) []*domain.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]*domain.Flashcard, 0)
	for _, card := range s.cards {
		if card.IsDue(now) {
			due = append(due, card.Clone())
		}
	}
	return due
}

// CardsWithAnyTag returns the cards whose tag set intersects the query
// tags (match-any semantics).
func (s *FlashcardStore) CardsWithAnyTag(tags []string) []*domain.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*domain.Flashcard, 0)
	for _, card := range s.cards {
		if card.HasAnyTag(tags) {
			matched = append(matched, card.Clone())
		}
	}
	return matched
}

// CardsWithAllTags returns the cards carrying every query tag
// (match-all semantics). An empty query matches the whole collection.
func (s *FlashcardStore) CardsWithAllTags(tags []string) []*domain.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*domain.Flashcard, 0)
	for _, card := range s.cards {
		if card.HasAllTags(tags) {
			matched = append(matched, card.Clone())
		}
	}
	return matched
}

// Stats computes the collection statistics at the given time. The
// reviewed-today window starts at local midnight in the given time's
// location.
func (s *FlashcardStore) Stats(now time.Time) CollectionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := CollectionStats{Total: len(s.cards)}
	var easeSum float64
	for _, card := range s.cards {
		easeSum += card.EaseFactor
		if card.IsDue(now) {
			stats.DueToday++
		}
		if !card.LastReviewed.IsZero() && !card.LastReviewed.Before(midnight) {
			stats.ReviewedToday++
		}
		if card.ReviewCount >= 5 && card.EaseFactor >= 2.5 {
			stats.MasteredCards++
		}
	}

	if stats.Total == 0 {
		stats.AverageEaseFactor = domain.DefaultEaseFactor
	} else {
		stats.AverageEaseFactor = math.Round(easeSum/float64(stats.Total)*100) / 100
	}
	return stats
}

// Snapshot returns a wholesale copy of the collection for persistence.
func (s *FlashcardStore) Snapshot() *CollectionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &CollectionSnapshot{
		TakenAt: s.now(),
		Cards:   s.cloneAll(s.cards),
	}
}

// Restore replaces the collection with the snapshot's cards, preserving
// their order. Used at startup and by collection import.
func (s *FlashcardStore) Restore(ctx context.Context, snapshot *CollectionSnapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	s.cards = s.cloneAll(snapshot.Cards)
	count := len(s.cards)
	s.mu.Unlock()

	s.logger.Info("collection restored", slog.Int("count", count))
	s.emit(ctx, events.NewChangeEvent(events.ReasonCollectionSet))
}

// find returns the stored card with the given id, or nil.
// Callers must hold the mutex.
func (s *FlashcardStore) find(id uuid.UUID) *domain.Flashcard {
	for _, card := range s.cards {
		if card.ID == id {
			return card
		}
	}
	return nil
}

// cloneAll deep-copies a card slice. Callers must hold the mutex when
// cloning the live collection.
func (s *FlashcardStore) cloneAll(cards []*domain.Flashcard) []*domain.Flashcard {
	out := make([]*domain.Flashcard, len(cards))
	for i, card := range cards {
		out[i] = card.Clone()
	}
	return out
}

// emit publishes a change event outside the critical section so that
// handlers may call back into the store.
func (s *FlashcardStore) emit(ctx context.Context, event *events.ChangeEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("change event emission failed",
			slog.String("error", err.Error()),
			slog.String("reason", event.Reason))
	}
}
