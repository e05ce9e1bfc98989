// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/recall-api/internal/api/shared"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/platform/logger"
	"github.com/phrazzld/recall-api/internal/store"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cards  *store.FlashcardStore
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards *store.FlashcardStore, logger *slog.Logger) *CardHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("malformed create card request", slog.Any("error", err))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	spec := req.toSpec()
	if err := spec.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card := h.cards.CreateCard(r.Context(), spec)
	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// CreateCards handles POST /cards/batch requests.
// The batch is atomic: one invalid card rejects the whole request.
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BatchCreateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	specs := make([]domain.CardSpec, 0, len(req.Cards))
	for _, cardReq := range req.Cards {
		spec := cardReq.toSpec()
		if err := spec.Validate(); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		specs = append(specs, spec)
	}

	cards := h.cards.CreateCards(r.Context(), specs)
	log.Debug("cards created", slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}

// ListCards handles GET /cards requests. Optional query parameters:
// tags (comma separated) filters the collection, and match=all requires
// every tag instead of any.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	tagsParam := r.URL.Query().Get("tags")
	if tagsParam == "" {
		shared.RespondWithJSON(w, r, http.StatusOK, h.cards.ListCards())
		return
	}

	tags := splitTags(tagsParam)
	var cards []*domain.Flashcard
	if r.URL.Query().Get("match") == "all" {
		cards = h.cards.CardsWithAllTags(tags)
	} else {
		cards = h.cards.CardsWithAnyTag(tags)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetCard handles GET /cards/{id} requests
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathCardID(w, r)
	if !ok {
		return
	}

	card, found := h.cards.GetCard(id)
	if !found {
		HandleAPIError(w, r, store.ErrCardNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PATCH /cards/{id} requests
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathCardID(w, r)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, err := updateFromRequest(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, found := h.cards.UpdateCard(r.Context(), id, update)
	if !found {
		HandleAPIError(w, r, store.ErrCardNotFound, "")
		return
	}

	log.Debug("card updated", slog.String("card_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathCardID(w, r)
	if !ok {
		return
	}

	if !h.cards.DeleteCard(r.Context(), id) {
		HandleAPIError(w, r, store.ErrCardNotFound, "")
		return
	}

	log.Debug("card deleted", slog.String("card_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// DueCards handles GET /cards/due requests
func (h *CardHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.cards.DueCards(time.Now()))
}

// ReviewCard handles POST /cards/{id}/review requests, rating a card
// outside any session.
func (h *CardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathCardID(w, r)
	if !ok {
		return
	}

	var req ReviewCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.cards.ReviewCard(r.Context(), id, req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card reviewed",
		slog.String("card_id", id.String()),
		slog.Int("quality", req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Stats handles GET /stats requests
func (h *CardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.cards.Stats(time.Now()))
}

// pathCardID extracts and parses the card UUID from the URL path,
// writing an error response on failure.
func (h *CardHandler) pathCardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathID)
	if err != nil {
		log.Debug("invalid card ID format", slog.String("card_id", pathID))
		HandleAPIError(w, r, domain.ErrInvalidID, "")
		return uuid.Nil, false
	}
	return id, true
}

// updateFromRequest converts the request into a store update,
// validating enum fields along the way.
func updateFromRequest(req UpdateCardRequest) (store.CardUpdate, error) {
	update := store.CardUpdate{
		Front:        req.Front,
		Back:         req.Back,
		Tags:         req.Tags,
		SourceNoteID: req.SourceNoteID,
		SourceURL:    req.SourceURL,
	}

	if req.Front != nil && strings.TrimSpace(*req.Front) == "" {
		return store.CardUpdate{}, domain.ErrEmptyFront
	}
	if req.Back != nil && strings.TrimSpace(*req.Back) == "" {
		return store.CardUpdate{}, domain.ErrEmptyBack
	}

	if req.Type != nil {
		cardType := domain.CardType(*req.Type)
		if !cardType.IsValid() {
			return store.CardUpdate{}, domain.NewValidationError("type", "unknown card type", domain.ErrValidation)
		}
		update.Type = &cardType
	}
	if req.Difficulty != nil {
		difficulty := domain.Difficulty(*req.Difficulty)
		if !difficulty.IsValid() {
			return store.CardUpdate{}, domain.NewValidationError("difficulty", "unknown difficulty", domain.ErrValidation)
		}
		update.Difficulty = &difficulty
	}
	if req.SourcePlatform != nil {
		platform := domain.SourcePlatform(*req.SourcePlatform)
		if !platform.IsValid() {
			return store.CardUpdate{}, domain.NewValidationError("source_platform", "unknown platform", domain.ErrValidation)
		}
		update.SourcePlatform = &platform
	}

	return update, nil
}

// splitTags parses a comma separated tag list, dropping empties.
func splitTags(param string) []string {
	parts := strings.Split(param, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
