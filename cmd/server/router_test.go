package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/recall-api/internal/config"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/events"
	"github.com/phrazzld/recall-api/internal/service/review"
	"github.com/phrazzld/recall-api/internal/store"
)

// newTestApplication builds an application without a database or LLM
// client, enough to exercise the router end to end.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.Default()
	srsService := srs.NewDefaultService()
	emitter := events.NewInMemoryEmitter(logger)
	cards := store.NewFlashcardStore(srsService, emitter, logger)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		},
		logger:         logger,
		srsService:     srsService,
		eventEmitter:   emitter,
		cardStore:      cards,
		sessionService: review.NewSessionService(cards, srsService, logger),
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCardLifecycleThroughRouter(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	router := app.setupRouter()

	// Create a card.
	body, err := json.Marshal(map[string]any{
		"front": "What is SM-2?",
		"back":  "A spaced repetition scheduling algorithm.",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/cards", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var card domain.Flashcard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))

	// It shows up as due.
	req = httptest.NewRequest(http.MethodGet, "/api/cards/due", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var due []*domain.Flashcard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &due))
	require.Len(t, due, 1)
	assert.Equal(t, card.ID, due[0].ID)

	// Review it through the endpoint.
	body, err = json.Marshal(map[string]int{"quality": 4})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/cards/"+card.ID.String()+"/review", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var reviewed domain.Flashcard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviewed))
	assert.Equal(t, 1, reviewed.ReviewCount)

	// Stats reflect the review.
	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.CollectionStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ReviewedToday)
}

func TestGenerateEndpointUnavailableWithoutGenerator(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	router := app.setupRouter()

	body := []byte(`{"source_text": "some notes"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportImportRoundTripThroughRouter(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	router := app.setupRouter()

	body := []byte(`{"front": "q", "back": "a", "tags": ["go"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cards", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Export.
	req = httptest.NewRequest(http.MethodGet, "/api/collection/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var exported struct {
		Cards []*domain.Flashcard `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Len(t, exported.Cards, 1)

	// Import into a fresh application.
	other := newTestApplication(t)
	otherRouter := other.setupRouter()

	importBody, err := json.Marshal(map[string]any{"cards": exported.Cards})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/collection/import", bytes.NewReader(importBody))
	rec = httptest.NewRecorder()
	otherRouter.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, other.cardStore.ListCards(), 1)
}
