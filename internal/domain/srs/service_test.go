package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/recall-api/internal/domain"
)

func TestNextScheduleValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil card is rejected", func(t *testing.T) {
		_, err := service.NextSchedule(nil, 4, now)
		if !errors.Is(err, ErrNilCard) {
			t.Errorf("Expected ErrNilCard, got %v", err)
		}
	})

	t.Run("quality below range is rejected", func(t *testing.T) {
		card := domain.NewFlashcard(domain.CardSpec{Front: "q", Back: "a"}, now)
		_, err := service.NextSchedule(card, -1, now)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Expected ErrInvalidQuality, got %v", err)
		}
	})

	t.Run("quality above range is rejected", func(t *testing.T) {
		card := domain.NewFlashcard(domain.CardSpec{Front: "q", Back: "a"}, now)
		_, err := service.NextSchedule(card, 6, now)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Expected ErrInvalidQuality, got %v", err)
		}
	})
}

func TestNextScheduleBootstrapCurve(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	card := domain.NewFlashcard(domain.CardSpec{Front: "q", Back: "a"}, now)

	// First successful review: 1 day.
	schedule, err := service.NextSchedule(card, 3, now)
	if err != nil {
		t.Fatalf("NextSchedule failed: %v", err)
	}
	if schedule.IntervalDays != 1 {
		t.Errorf("Expected first interval of 1 day, got %d", schedule.IntervalDays)
	}

	// Second successful review: 6 days.
	card.ReviewCount = 1
	card.IntervalDays = schedule.IntervalDays
	card.EaseFactor = schedule.EaseFactor
	schedule, err = service.NextSchedule(card, 3, now)
	if err != nil {
		t.Fatalf("NextSchedule failed: %v", err)
	}
	if schedule.IntervalDays != 6 {
		t.Errorf("Expected second interval of 6 days, got %d", schedule.IntervalDays)
	}

	// Third successful review: round(6 * newEF).
	card.ReviewCount = 2
	card.IntervalDays = schedule.IntervalDays
	card.EaseFactor = schedule.EaseFactor
	schedule, err = service.NextSchedule(card, 3, now)
	if err != nil {
		t.Fatalf("NextSchedule failed: %v", err)
	}
	// Ease after three quality-3 reviews: 2.5 - 0.14 - 0.14 - 0.14 = 2.08,
	// so the third interval is round(6 * 2.08) = 12.
	if schedule.IntervalDays != 12 {
		t.Errorf("Expected third interval of 12 days, got %d", schedule.IntervalDays)
	}
}

func TestNextScheduleEaseFloor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Now().UTC()

	card := domain.NewFlashcard(domain.CardSpec{Front: "q", Back: "a"}, now)
	card.EaseFactor = 1.3

	// Repeated failures can never push the ease factor below the floor.
	for i := 0; i < 5; i++ {
		schedule, err := service.NextSchedule(card, 0, now)
		if err != nil {
			t.Fatalf("NextSchedule failed: %v", err)
		}
		if schedule.EaseFactor < 1.3 {
			t.Fatalf("Ease factor fell below floor: %f", schedule.EaseFactor)
		}
		card.EaseFactor = schedule.EaseFactor
		card.ReviewCount++
	}
}

func TestIsPassing(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()

	for quality := MinQuality; quality <= MaxQuality; quality++ {
		expected := quality >= 3
		if service.IsPassing(quality) != expected {
			t.Errorf("IsPassing(%d) = %v, expected %v",
				quality, service.IsPassing(quality), expected)
		}
	}
}
