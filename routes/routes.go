package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/trunkcat/fixtures/docs"
	"github.com/trunkcat/fixtures/handlers"
	"github.com/trunkcat/fixtures/metrics"
	"github.com/trunkcat/fixtures/middleware"
)

type Handlers struct {
	Schedule   *handlers.ScheduleHandler
	StageItem  *handlers.StageItemHandler
	Match      *handlers.MatchHandler
	Tournament *handlers.TournamentHandler
	WebSocket  *handlers.WebSocketHandler
}

// SetupRoutes mounts the console API under /api together with the swagger
// UI, Prometheus metrics and a health check.
func SetupRoutes(router chi.Router, h Handlers, m *metrics.Metrics, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", m.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		// Websocket connections must not be cut by the timeout middleware.
		r.Get("/ws/stages/{stageID}", h.WebSocket.ServeWs)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(30 * time.Second))

			r.Route("/stages/{stageID}", func(r chi.Router) {
				r.Get("/schedule", h.Schedule.Schedule)
				r.Get("/standings", h.StageItem.Standings)
				r.Post("/snapshot", h.Schedule.PublishSnapshot)
				r.Delete("/snapshot", h.Schedule.DeleteSnapshot)
			})

			r.Route("/stage-items/{stageItemID}", func(r chi.Router) {
				r.Get("/assignment", h.StageItem.Assignment)
				r.Put("/teams", h.StageItem.AssignTeams)
			})

			r.Route("/matches/{matchID}", func(r chi.Router) {
				r.Patch("/", h.Match.UpdateScore)
				r.Post("/end", h.Match.EndMatch)
			})

			r.Route("/clubs/{clubID}/tournaments", func(r chi.Router) {
				r.Get("/", h.Tournament.ListHandler)
				r.Post("/", h.Tournament.CreateHandler)
			})
		})
	})
}
