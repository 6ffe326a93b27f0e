// Package http assembles the REST surface of the daily goals backend.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dailygoals-backend/internal/interfaces/http/handlers"
	"dailygoals-backend/internal/interfaces/http/middleware"
	"dailygoals-backend/pkg/observability"
)

// NewRouter builds the chi router with the full middleware stack. The
// agent-facing routes sit behind a circuit breaker so a failing inference
// backend cannot pile up requests.
func NewRouter(chatHandler *handlers.ChatHandler, goalHandler *handlers.GoalHandler, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/goals", goalHandler.ListGoals)
		r.Get("/goals/{date}", goalHandler.GetGoal)
		r.Put("/goals/{date}", goalHandler.PutGoal)
		r.Delete("/goals/{date}", goalHandler.DeleteGoal)
		r.Get("/graph", goalHandler.GetGraph)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CircuitBreaker(middleware.DefaultCircuitBreakerConfig("agent"), logger))
			r.Post("/chat", chatHandler.Chat)
			r.Post("/chat/stream", chatHandler.ChatStream)
			r.Post("/voice/stream", chatHandler.VoiceStream)
		})
	})

	return r
}
