package srs

import (
	"math"
	"testing"
	"time"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "perfect recall increases ease factor",
			current:  2.5,
			quality:  5,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "quality 4 leaves ease factor unchanged",
			current:  2.5,
			quality:  4,
			expected: 2.5, // adjustment is exactly 0
		},
		{
			name:     "quality 3 slightly decreases ease factor",
			current:  2.5,
			quality:  3,
			expected: 2.36, // 2.5 + (0.1 - 2*0.12)
		},
		{
			name:     "quality 2 decreases ease factor",
			current:  2.5,
			quality:  2,
			expected: 2.18, // 2.5 + (0.1 - 3*0.14)
		},
		{
			name:     "total failure sharply decreases ease factor",
			current:  2.5,
			quality:  0,
			expected: 1.7, // 2.5 + (0.1 - 5*0.18)
		},
		{
			name:     "minimum ease factor is enforced",
			current:  1.35,
			quality:  0,
			expected: 1.3, // 1.35 - 0.8 = 0.55, floored at 1.3
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newEF := calculateNewEaseFactor(tc.current, tc.quality, params)

			// Use a small epsilon for float comparison
			epsilon := 0.0001
			if math.Abs(newEF-tc.expected) > epsilon {
				t.Errorf("Expected ease factor %f, got %f", tc.expected, newEF)
			}
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		quality     int
		reviewCount int
		current     int
		newEF       float64
		expected    int
	}{
		{
			name:        "quality 0 resets interval regardless of history",
			quality:     0,
			reviewCount: 12,
			current:     90,
			newEF:       2.5,
			expected:    1,
		},
		{
			name:        "quality 1 resets interval regardless of history",
			quality:     1,
			reviewCount: 4,
			current:     30,
			newEF:       2.5,
			expected:    1,
		},
		{
			name:        "quality 2 resets interval regardless of history",
			quality:     2,
			reviewCount: 1,
			current:     6,
			newEF:       2.5,
			expected:    1,
		},
		{
			name:        "first successful review uses one day",
			quality:     3,
			reviewCount: 0,
			current:     0,
			newEF:       2.36,
			expected:    1,
		},
		{
			name:        "second successful review uses six days",
			quality:     4,
			reviewCount: 1,
			current:     1,
			newEF:       2.5,
			expected:    6,
		},
		{
			name:        "third successful review grows geometrically",
			quality:     4,
			reviewCount: 2,
			current:     6,
			newEF:       2.5,
			expected:    15, // round(6 * 2.5)
		},
		{
			name:        "geometric growth rounds to nearest day",
			quality:     3,
			reviewCount: 5,
			current:     6,
			newEF:       2.36,
			expected:    14, // round(14.16)
		},
		{
			name:        "later successful review multiplies previous interval",
			quality:     4,
			reviewCount: 5,
			current:     10,
			newEF:       2.5,
			expected:    25,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newInterval := calculateNewInterval(
				tc.quality,
				tc.reviewCount,
				tc.current,
				tc.newEF,
				params,
			)

			if newInterval != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, newInterval)
			}
		})
	}
}

func TestCalculateNextReviewDate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		interval int
		expected time.Time
	}{
		{
			name:     "one day interval is due exactly 24h later",
			interval: 1,
			expected: now.Add(24 * time.Hour),
		},
		{
			name:     "six day interval",
			interval: 6,
			expected: now.Add(6 * 24 * time.Hour),
		},
		{
			name:     "zero interval is due immediately",
			interval: 0,
			expected: now,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nextDate := calculateNextReviewDate(tc.interval, now)

			if !nextDate.Equal(tc.expected) {
				t.Errorf("Expected next review at %v, got %v", tc.expected, nextDate)
			}
		})
	}
}

func TestCalculateScheduleIsDeterministic(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := calculateSchedule(4, 3, 12, 2.2, now, params)
	second := calculateSchedule(4, 3, 12, 2.2, now, params)

	if first != second {
		t.Errorf("Expected identical schedules for identical inputs, got %+v and %+v",
			first, second)
	}
}

func TestCalculateScheduleFailurePreservesHistoryCounters(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A card that has graduated far into its curve, then fails once.
	schedule := calculateSchedule(1, 10, 120, 2.5, now, params)

	if schedule.IntervalDays != 1 {
		t.Errorf("Expected failure to reset interval to 1, got %d", schedule.IntervalDays)
	}

	if schedule.EaseFactor >= 2.5 {
		t.Errorf("Expected failure to decrease ease factor, got %f", schedule.EaseFactor)
	}

	if !schedule.NextReviewDate.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected next review tomorrow, got %v", schedule.NextReviewDate)
	}
}
