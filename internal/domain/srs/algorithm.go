package srs

import (
	"math"
	"time"
)

// Schedule holds the updated scheduling values computed for one review.
// It carries only the values the algorithm derives; the caller applies
// the bookkeeping (review counters, last-reviewed timestamp) to the card.
type Schedule struct {
	IntervalDays   int
	EaseFactor     float64
	NextReviewDate time.Time
}

// calculateNewEaseFactor applies the classic SM-2 ease adjustment.
//
// The adjustment is applied on every review, pass or fail: quality 5
// increases the ease factor (faster future growth), quality 3 leaves it
// roughly unchanged, and anything below 3 decreases it. The result is
// floored at params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	miss := float64(MaxQuality - quality)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new interval in days.
//
// A failed recall (quality below the pass threshold) always resets the
// interval to params.FailureIntervalDays, regardless of history. The
// first two successful reviews use the fixed bootstrap intervals; from
// the third onward the previous interval grows geometrically by the
// newly computed ease factor.
//
// reviewCount is the count before this review: 0 means this is the
// card's very first review.
func calculateNewInterval(
	quality int,
	reviewCount int,
	currentInterval int,
	newEaseFactor float64,
	params *Params,
) int {
	if quality < params.PassQuality {
		return params.FailureIntervalDays
	}

	switch reviewCount {
	case 0:
		return params.FirstIntervalDays
	case 1:
		return params.SecondIntervalDays
	default:
		return int(math.Round(float64(currentInterval) * newEaseFactor))
	}
}

// calculateNextReviewDate converts the interval into the next due time,
// exactly intervalDays * 24h after now.
func calculateNextReviewDate(intervalDays int, now time.Time) time.Time {
	return now.Add(time.Duration(intervalDays) * 24 * time.Hour)
}

// calculateSchedule computes the full updated schedule for one review.
// It is a pure function: identical inputs always yield identical output.
func calculateSchedule(
	quality int,
	reviewCount int,
	intervalDays int,
	easeFactor float64,
	now time.Time,
	params *Params,
) Schedule {
	newEF := calculateNewEaseFactor(easeFactor, quality, params)
	newInterval := calculateNewInterval(quality, reviewCount, intervalDays, newEF, params)

	return Schedule{
		IntervalDays:   newInterval,
		EaseFactor:     newEF,
		NextReviewDate: calculateNextReviewDate(newInterval, now),
	}
}
