package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidgrab/internal/api/handler"
	mw "github.com/iconidentify/vidgrab/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	videoHandler *handler.VideoHandler,
	healthHandler *handler.HealthHandler,
	requestTimeout time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(mw.CORS)

	r.Get("/", healthHandler.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/stats", healthHandler.Stats)

		r.Post("/extract-info", videoHandler.ExtractInfo)
		r.Post("/download", videoHandler.Download)
		r.Get("/downloads", videoHandler.ListDownloads)
	})

	return r
}
