package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/recall-api/internal/api"
	apiMiddleware "github.com/phrazzld/recall-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	cardHandler := api.NewCardHandler(app.cardStore, app.logger)
	reviewHandler := api.NewReviewHandler(app.sessionService, app.logger)
	generateHandler := api.NewGenerateHandler(app.generator, app.cardStore, app.logger)
	collectionHandler := api.NewCollectionHandler(app.cardStore, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Card management endpoints
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardHandler.CreateCard)
			r.Get("/", cardHandler.ListCards)
			r.Post("/batch", cardHandler.CreateCards)
			r.Get("/due", cardHandler.DueCards)
			r.Get("/{id}", cardHandler.GetCard)
			r.Patch("/{id}", cardHandler.UpdateCard)
			r.Delete("/{id}", cardHandler.DeleteCard)
			r.Post("/{id}/review", cardHandler.ReviewCard)
		})

		// Review session endpoints
		r.Route("/reviews/session", func(r chi.Router) {
			r.Post("/", reviewHandler.StartSession)
			r.Get("/", reviewHandler.GetSession)
			r.Delete("/", reviewHandler.EndSession)
			r.Get("/card", reviewHandler.CurrentCard)
			r.Post("/next", reviewHandler.NextCard)
			r.Post("/previous", reviewHandler.PreviousCard)
			r.Post("/answer", reviewHandler.SubmitAnswer)
		})

		// Collection statistics
		r.Get("/stats", cardHandler.Stats)

		// Card generation from source text
		r.Post("/generate", generateHandler.GenerateCards)

		// Collection transfer endpoints
		r.Get("/collection/export", collectionHandler.Export)
		r.Post("/collection/import", collectionHandler.Import)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
