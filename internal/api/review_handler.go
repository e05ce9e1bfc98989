package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/recall-api/internal/api/shared"
	"github.com/phrazzld/recall-api/internal/platform/logger"
	"github.com/phrazzld/recall-api/internal/service/review"
)

// ReviewHandler handles review session HTTP requests
type ReviewHandler struct {
	sessions review.ReviewSessionService
	logger   *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(sessions review.ReviewSessionService, logger *slog.Logger) *ReviewHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("session service cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "review_handler")),
	}
}

// StartSession handles POST /reviews/session requests.
// With card IDs in the body the session covers exactly those cards;
// otherwise it covers everything currently due.
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// An absent body means "session over everything due". ContentLength
	// is unreliable for that check (chunked requests report -1), so the
	// body is always decoded and only a cleanly empty one is tolerated.
	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.sessions.Start(r.Context(), req.CardIDs)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session started",
		slog.String("session_id", state.Session.ID.String()),
		slog.Int("queue_size", state.QueueSize))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(state))
}

// GetSession handles GET /reviews/session requests
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Active(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// CurrentCard handles GET /reviews/session/card requests
func (h *ReviewHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.sessions.CurrentCard(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// NextCard handles POST /reviews/session/next requests
func (h *ReviewHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Next(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// PreviousCard handles POST /reviews/session/previous requests
func (h *ReviewHandler) PreviousCard(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Previous(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// SubmitAnswer handles POST /reviews/session/answer requests
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	responseTime := time.Duration(req.ResponseTimeMs) * time.Millisecond
	card, state, err := h.sessions.SubmitReview(r.Context(), req.Quality, responseTime)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("answer submitted",
		slog.String("card_id", card.ID.String()),
		slog.Int("quality", req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Card:    card,
		Session: sessionToResponse(state),
	})
}

// EndSession handles DELETE /reviews/session requests
func (h *ReviewHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, err := h.sessions.End(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session ended",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed))

	completedAt := session.CompletedAt
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		SessionID:         session.ID,
		StartedAt:         session.StartedAt,
		CompletedAt:       &completedAt,
		CardsReviewed:     session.CardsReviewed,
		CorrectAnswers:    session.CorrectAnswers,
		AverageResponseMs: session.AverageResponseTime.Milliseconds(),
	})
}

// sessionToResponse maps active session state to the response shape.
func sessionToResponse(state *review.SessionState) SessionResponse {
	return SessionResponse{
		SessionID:         state.Session.ID,
		StartedAt:         state.Session.StartedAt,
		CardsReviewed:     state.Session.CardsReviewed,
		CorrectAnswers:    state.Session.CorrectAnswers,
		AverageResponseMs: state.Session.AverageResponseTime.Milliseconds(),
		QueueSize:         state.QueueSize,
		Position:          state.Position,
	}
}
