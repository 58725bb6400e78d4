package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/observability-platform/app"
	"github.com/upb/observability-platform/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware. Recoverer sits outside the request-logging
	// middleware so a re-raised handler panic still becomes a 500 after
	// the error entry is emitted.
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Correlation-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Request observation
	r.Use(deps.RequestLogging.Handler)

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))

		r.Route("/records", func(r chi.Router) {
			r.Post("/", handlers.AppendRecordHandler(deps))
			r.Post("/batch", handlers.AppendRecordsHandler(deps))
		})

		r.Get("/log/validation", handlers.ValidateLogHandler(deps))
		r.Post("/architecture/snapshot", handlers.ArchitectureSnapshotHandler(deps))
	})

	return r
}
