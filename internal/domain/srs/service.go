package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/recall-api/internal/domain"
)

// Common errors
var (
	ErrNilCard        = errors.New("flashcard cannot be nil")
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// NextSchedule computes the updated schedule for reviewing the given
	// card with the given quality score at the given time. The card
	// itself is not modified.
	//
	// Returns ErrInvalidQuality if quality is outside [MinQuality,
	// MaxQuality].
	NextSchedule(card *domain.Flashcard, quality int, now time.Time) (Schedule, error)

	// IsPassing reports whether the given quality counts as a
	// successful recall under the configured pass threshold.
	IsPassing(quality int) bool
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates an SM-2 service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates an SM-2 service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextSchedule implements the Service interface.
func (s *defaultService) NextSchedule(
	card *domain.Flashcard,
	quality int,
	now time.Time,
) (Schedule, error) {
	if card == nil {
		return Schedule{}, ErrNilCard
	}

	if quality < MinQuality || quality > MaxQuality {
		return Schedule{}, ErrInvalidQuality
	}

	return calculateSchedule(
		quality,
		card.ReviewCount,
		card.IntervalDays,
		card.EaseFactor,
		now,
		s.params,
	), nil
}

// IsPassing implements the Service interface.
func (s *defaultService) IsPassing(quality int) bool {
	return quality >= s.params.PassQuality
}
