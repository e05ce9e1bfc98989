package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/recall-api/internal/domain"
)

// Request describes a card generation job: the source text to extract
// cards from and metadata tying the results back to where they came from.
type Request struct {
	SourceText string
	Platform   domain.SourcePlatform
	SourceURL  string
	NoteID     string
	MaxCards   int
}

// Generator defines the interface for generating flashcard specs from
// source text. It is the boundary between the application core and the
// external LLM service.
type Generator interface {
	// GenerateCards creates card specs from the request's source text.
	// The returned specs are normalized and validated; callers hand
	// them to the card store for creation.
	GenerateCards(ctx context.Context, req Request) ([]domain.CardSpec, error)
}

// cardPayload is the JSON shape the LLM is prompted to produce, one
// entry per card.
type cardPayload struct {
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// ParseCardPayload decodes an LLM response body into validated card
// specs. Entries missing a front or back are dropped; if nothing
// usable remains the whole response is rejected with ErrInvalidResponse.
func ParseCardPayload(data []byte, req Request) ([]domain.CardSpec, error) {
	trimmed := stripCodeFence(data)

	var payload []cardPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	specs := make([]domain.CardSpec, 0, len(payload))
	for _, item := range payload {
		spec := domain.CardSpec{
			Front:          strings.TrimSpace(item.Front),
			Back:           strings.TrimSpace(item.Back),
			Type:           domain.CardType(item.Type),
			Difficulty:     domain.Difficulty(item.Difficulty),
			Tags:           item.Tags,
			SourceNoteID:   req.NoteID,
			SourcePlatform: req.Platform,
			SourceURL:      req.SourceURL,
		}
		spec.Normalize()
		if err := spec.Validate(); err != nil {
			continue
		}
		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no usable cards in response", ErrInvalidResponse)
	}
	if req.MaxCards > 0 && len(specs) > req.MaxCards {
		specs = specs[:req.MaxCards]
	}
	return specs, nil
}

// stripCodeFence removes a surrounding markdown code fence, which LLMs
// frequently wrap JSON output in despite instructions not to.
func stripCodeFence(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
