package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/recall-api/internal/api/shared"
	"github.com/phrazzld/recall-api/internal/platform/logger"
	"github.com/phrazzld/recall-api/internal/store"
)

// CollectionHandler handles whole-collection export and import.
type CollectionHandler struct {
	cards  *store.FlashcardStore
	logger *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(cards *store.FlashcardStore, logger *slog.Logger) *CollectionHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for CollectionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CollectionHandler")
	}

	return &CollectionHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "collection_handler")),
	}
}

// Export handles GET /collection/export requests
func (h *CollectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cards := h.cards.ListCards()
	log.Debug("collection exported", slog.Int("card_count", len(cards)))

	shared.RespondWithJSON(w, r, http.StatusOK, ExportResponse{
		ExportedAt: time.Now(),
		Cards:      cards,
	})
}

// Import handles POST /collection/import requests. The imported cards
// replace the whole collection, scheduling state included.
func (h *CollectionHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportCollectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	h.cards.Restore(r.Context(), &store.CollectionSnapshot{
		TakenAt: time.Now(),
		Cards:   req.Cards,
	})

	log.Info("collection imported", slog.Int("card_count", len(req.Cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"imported": len(req.Cards)})
}
