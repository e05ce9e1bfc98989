package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recall-api/internal/api/shared"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/generation"
	"github.com/phrazzld/recall-api/internal/platform/logger"
	"github.com/phrazzld/recall-api/internal/store"
)

// GenerateHandler handles card generation HTTP requests
type GenerateHandler struct {
	generator generation.Generator
	cards     *store.FlashcardStore
	logger    *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler. A nil generator is
// allowed and turns the endpoint into a 503: generation is an optional
// feature gated on LLM configuration.
func NewGenerateHandler(generator generation.Generator, cards *store.FlashcardStore, logger *slog.Logger) *GenerateHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for GenerateHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerateHandler")
	}

	return &GenerateHandler{
		generator: generator,
		cards:     cards,
		logger:    logger.With(slog.String("component", "generate_handler")),
	}
}

// GenerateCards handles POST /generate requests: it produces cards
// from the submitted source text and adds them to the collection.
func (h *GenerateHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if h.generator == nil {
		HandleAPIError(w, r, generation.ErrInvalidConfig, "")
		return
	}

	var req GenerateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	platform := domain.SourcePlatform(req.Platform)
	if req.Platform != "" && !platform.IsValid() {
		HandleAPIError(w, r,
			domain.NewValidationError("platform", "unknown platform", domain.ErrValidation), "")
		return
	}
	if req.Platform == "" {
		platform = domain.SourcePlatformGeneral
	}

	specs, err := h.generator.GenerateCards(r.Context(), generation.Request{
		SourceText: req.SourceText,
		Platform:   platform,
		SourceURL:  req.SourceURL,
		NoteID:     req.NoteID,
		MaxCards:   req.MaxCards,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Caller-supplied tags are appended to whatever the model chose.
	if len(req.Tags) > 0 {
		for i := range specs {
			specs[i].Tags = append(specs[i].Tags, req.Tags...)
		}
	}

	cards := h.cards.CreateCards(r.Context(), specs)
	log.Info("cards generated from source text",
		slog.Int("card_count", len(cards)),
		slog.String("platform", string(platform)))
	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}
