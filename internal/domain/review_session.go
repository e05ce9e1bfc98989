package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSession is an ephemeral grouping of cards selected for one
// sitting. At most one session is active at a time; the session-level
// aggregates exist for reporting and are never consumed by the
// scheduling algorithm.
type ReviewSession struct {
	ID          uuid.UUID `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"` // zero while active

	CardsReviewed       int           `json:"cards_reviewed"`
	CorrectAnswers      int           `json:"correct_answers"`
	AverageResponseTime time.Duration `json:"average_response_time"`
}

// NewReviewSession creates a fresh, active session record.
func NewReviewSession(now time.Time) *ReviewSession {
	return &ReviewSession{
		ID:        uuid.New(),
		StartedAt: now,
	}
}

// RecordReview folds one review result into the session aggregates.
// The response time is averaged over all reviews recorded so far.
func (s *ReviewSession) RecordReview(correct bool, responseTime time.Duration) {
	total := s.AverageResponseTime*time.Duration(s.CardsReviewed) + responseTime
	s.CardsReviewed++
	if correct {
		s.CorrectAnswers++
	}
	s.AverageResponseTime = total / time.Duration(s.CardsReviewed)
}

// Complete stamps the session as finished.
func (s *ReviewSession) Complete(now time.Time) {
	s.CompletedAt = now
}

// IsActive reports whether the session has not been completed yet.
func (s *ReviewSession) IsActive() bool {
	return s.CompletedAt.IsZero()
}
