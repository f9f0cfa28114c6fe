package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flashpro-backend/internal/handlers"
	"flashpro-backend/internal/middleware"
)

func New(
	setHandler *handlers.FlashcardSetHandler,
	generateHandler *handlers.GenerateHandler,
	generateRateLimit int,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generation spends external API quota, so it gets its own limiter
	generateLimiter := middleware.NewRateLimiter(generateRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Content Routes ────
		r.Get("/content/supported-formats", generateHandler.SupportedFormats)

		// ──── Flashcard Set Routes ────
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setHandler.List)
			r.Get("/grouped", setHandler.Grouped)
			r.Post("/", setHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", generateHandler.Generate)
			})

			r.Get("/{id}", setHandler.Get)
			r.Put("/{id}", setHandler.Update)
			r.Delete("/{id}", setHandler.Delete)
			r.Get("/{id}/export", setHandler.Export)
		})
	})

	return r
}
