package srs

import "testing"

func TestNewDefaultParams(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected min ease factor 1.3, got %f", params.MinEaseFactor)
	}
	if params.PassQuality != 3 {
		t.Errorf("Expected pass quality 3, got %d", params.PassQuality)
	}
	if params.FirstIntervalDays != 1 || params.SecondIntervalDays != 6 {
		t.Errorf("Expected 1/6 bootstrap intervals, got %d/%d",
			params.FirstIntervalDays, params.SecondIntervalDays)
	}
	if params.FailureIntervalDays != 1 {
		t.Errorf("Expected failure interval of 1 day, got %d", params.FailureIntervalDays)
	}
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel() // Enable parallel execution

	params := NewParams(ParamsConfig{
		MinEaseFactor:      1.5,
		SecondIntervalDays: 4,
	})

	if params.MinEaseFactor != 1.5 {
		t.Errorf("Expected overridden min ease factor 1.5, got %f", params.MinEaseFactor)
	}
	if params.SecondIntervalDays != 4 {
		t.Errorf("Expected overridden second interval 4, got %d", params.SecondIntervalDays)
	}

	// Unspecified values keep their defaults.
	if params.PassQuality != 3 {
		t.Errorf("Expected default pass quality 3, got %d", params.PassQuality)
	}
	if params.FirstIntervalDays != 1 {
		t.Errorf("Expected default first interval 1, got %d", params.FirstIntervalDays)
	}
}
