package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"credit-simulator/repository"
)

const requestTimeout = 30 * time.Second

type RouterDeps struct {
	Simulator Simulator
	// Health is pinged by GET /health; nil reports healthy.
	Health  repository.Pinger
	Limiter *RateLimiter
	Logger  logrus.FieldLogger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", healthHandler(deps.Health))

	simulations := NewSimulationHandler(deps.Simulator, deps.Logger)
	r.Group(func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(RateLimitMiddleware(deps.Limiter, deps.Logger))
		}
		r.Post("/simulations", simulations.StartSimulation)
	})

	return r
}

func healthHandler(p repository.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
