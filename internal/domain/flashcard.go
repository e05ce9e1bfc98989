package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardType classifies the kind of recall a flashcard exercises.
// It is informational only and has no effect on scheduling.
type CardType string

// Possible card type values.
const (
	CardTypeConcept    CardType = "concept"
	CardTypeDefinition CardType = "definition"
	CardTypeCode       CardType = "code"
	CardTypeProblem    CardType = "problem"
	CardTypeFact       CardType = "fact"
)

// IsValid reports whether the card type is one of the known values.
func (t CardType) IsValid() bool {
	switch t {
	case CardTypeConcept, CardTypeDefinition, CardTypeCode, CardTypeProblem, CardTypeFact:
		return true
	default:
		return false
	}
}

// Difficulty is an author-assigned label on a card. It is distinct from
// the SM-2 quality signal and has no effect on scheduling.
type Difficulty string

// Possible difficulty values.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether the difficulty is one of the known values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// SourcePlatform identifies where a card's source material came from.
type SourcePlatform string

// Possible source platform values.
const (
	SourcePlatformLeetCode SourcePlatform = "leetcode"
	SourcePlatformYouTube  SourcePlatform = "youtube"
	SourcePlatformGeneral  SourcePlatform = "general"
)

// IsValid reports whether the platform is one of the known values.
func (p SourcePlatform) IsValid() bool {
	switch p {
	case SourcePlatformLeetCode, SourcePlatformYouTube, SourcePlatformGeneral:
		return true
	default:
		return false
	}
}

// DefaultEaseFactor is the SM-2 ease factor assigned to new cards.
const DefaultEaseFactor = 2.5

// Flashcard is one discrete unit of recall practice together with its
// full spaced-repetition scheduling state.
//
// The scheduling fields (ReviewCount, CorrectCount, IntervalDays,
// EaseFactor, LastReviewed, NextReviewDate) are mutated exclusively by
// the review operation; no other code path touches them.
type Flashcard struct {
	ID         uuid.UUID  `json:"id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Type       CardType   `json:"type"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags,omitempty"`

	// Optional provenance links to the external notes collaborator.
	SourceNoteID   string         `json:"source_note_id,omitempty"`
	SourcePlatform SourcePlatform `json:"source_platform,omitempty"`
	SourceURL      string         `json:"source_url,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	LastReviewed   time.Time `json:"last_reviewed,omitempty"`    // zero until first review
	NextReviewDate time.Time `json:"next_review_date"`           // card is due when <= now
	ReviewCount    int       `json:"review_count"`               // total completed reviews
	CorrectCount   int       `json:"correct_count"`              // reviews with quality >= 3
	IntervalDays   int       `json:"interval_days"`              // current spacing interval
	EaseFactor     float64   `json:"ease_factor"`                // SM-2 ease factor, floored at 1.3
}

// CardSpec carries the caller-supplied fields for creating a flashcard.
// Scheduling state is never part of a spec; it is always initialized to
// the defaults by NewFlashcard.
type CardSpec struct {
	Front          string         `json:"front"`
	Back           string         `json:"back"`
	Type           CardType       `json:"type"`
	Difficulty     Difficulty     `json:"difficulty"`
	Tags           []string       `json:"tags,omitempty"`
	SourceNoteID   string         `json:"source_note_id,omitempty"`
	SourcePlatform SourcePlatform `json:"source_platform,omitempty"`
	SourceURL      string         `json:"source_url,omitempty"`
}

// Normalize fills in defaults for missing or unknown classification
// fields. Untrusted payloads (for example from the LLM generator) are
// normalized before they are turned into cards.
func (s *CardSpec) Normalize() {
	if !s.Type.IsValid() {
		s.Type = CardTypeConcept
	}
	if !s.Difficulty.IsValid() {
		s.Difficulty = DifficultyMedium
	}
}

// Validate checks that the spec carries the required text fields.
// The store itself accepts any spec; this boundary validation is applied
// where untrusted payloads enter the system.
func (s *CardSpec) Validate() error {
	if s.Front == "" {
		return ErrEmptyFront
	}
	if s.Back == "" {
		return ErrEmptyBack
	}
	return nil
}

// NewFlashcard creates a card from the given spec with all scheduling
// state at its initial values. The card is immediately due: its
// NextReviewDate equals its creation time.
func NewFlashcard(spec CardSpec, now time.Time) *Flashcard {
	return &Flashcard{
		ID:             uuid.New(),
		Front:          spec.Front,
		Back:           spec.Back,
		Type:           spec.Type,
		Difficulty:     spec.Difficulty,
		Tags:           append([]string(nil), spec.Tags...),
		SourceNoteID:   spec.SourceNoteID,
		SourcePlatform: spec.SourcePlatform,
		SourceURL:      spec.SourceURL,
		CreatedAt:      now,
		NextReviewDate: now,
		ReviewCount:    0,
		CorrectCount:   0,
		IntervalDays:   0,
		EaseFactor:     DefaultEaseFactor,
	}
}

// IsDue reports whether the card is eligible for review at the given time.
func (c *Flashcard) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}

// HasAnyTag reports whether the card carries at least one of the given
// tags (match-any semantics).
func (c *Flashcard) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		for _, have := range c.Tags {
			if tag == have {
				return true
			}
		}
	}
	return false
}

// HasAllTags reports whether the card carries every one of the given
// tags (match-all semantics). An empty query matches every card.
func (c *Flashcard) HasAllTags(tags []string) bool {
	for _, tag := range tags {
		found := false
		for _, have := range c.Tags {
			if tag == have {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the card. Callers of the store receive
// clones so that nothing external holds a mutable reference to the
// collection's records.
func (c *Flashcard) Clone() *Flashcard {
	dup := *c
	dup.Tags = append([]string(nil), c.Tags...)
	return &dup
}
