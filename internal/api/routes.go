package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. Authorization is enforced by the
// gateway in front of this service, not here.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://gestionale.omniapartners.it", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/obiettivi", func(r chi.Router) {
			r.Get("/dealer", h.DealerObiettivi)
			r.Get("/agente", h.AgenteObiettivi)
			r.Post("/invalidate", h.InvalidateCache)
		})
		r.Get("/compensi/riepilogo", h.CompensiRiepilogo)
	})

	return r
}
