package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/veriscope/veriscope/internal/config"
	"github.com/veriscope/veriscope/internal/pipeline"
	"github.com/veriscope/veriscope/internal/session"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(cfg *config.Config, engine *pipeline.Engine, sessions *session.Store) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(engine, sessions)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.Limits.RequestsPerMinute))

			r.Post("/analyze", handler.Analyze)
			r.Post("/analyze/upload", handler.AnalyzeUpload)

			r.Get("/report", handler.GetReport)
			r.Delete("/report", handler.ResetReport)
		})
	})

	return r
}
