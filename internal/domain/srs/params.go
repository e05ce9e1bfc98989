package srs

// Quality bounds for a review. Quality is the subjective recall score
// supplied by the reviewer: 0 is a total failure, 5 is perfect recall.
const (
	MinQuality = 0
	MaxQuality = 5
)

// Params defines all configurable parameters for the SM-2 algorithm.
type Params struct {
	// MinEaseFactor is the floor applied to the ease factor so that
	// intervals never shrink below a minimal growth rate.
	MinEaseFactor float64

	// PassQuality is the lowest quality score that counts as a
	// successful recall.
	PassQuality int

	// FailureIntervalDays is the interval assigned after a failed
	// recall, regardless of review history.
	FailureIntervalDays int

	// FirstIntervalDays and SecondIntervalDays bootstrap the spacing
	// curve for the first two successful reviews of a card.
	FirstIntervalDays  int
	SecondIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor       float64
	PassQuality         int
	FailureIntervalDays int
	FirstIntervalDays   int
	SecondIntervalDays  int
}

// NewDefaultParams creates a Params instance with the classic SM-2
// values: ease floored at 1.3, quality 3 as the pass threshold, and the
// 1-day / 6-day bootstrap for the first two successful reviews.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       1.3,
		PassQuality:         3,
		FailureIntervalDays: 1,
		FirstIntervalDays:   1,
		SecondIntervalDays:  6,
	}
}

// NewParams creates a Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassQuality > 0 {
		params.PassQuality = config.PassQuality
	}
	if config.FailureIntervalDays > 0 {
		params.FailureIntervalDays = config.FailureIntervalDays
	}
	if config.FirstIntervalDays > 0 {
		params.FirstIntervalDays = config.FirstIntervalDays
	}
	if config.SecondIntervalDays > 0 {
		params.SecondIntervalDays = config.SecondIntervalDays
	}

	return params
}
