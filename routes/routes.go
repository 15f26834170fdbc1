package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/jamietsang/courtlog/handlers"
	"github.com/jamietsang/courtlog/middleware"
)

// RateLimitConfig carries the per-IP limiter knobs from configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	allowedOrigins []string,
	rateLimit RateLimitConfig,
	authHandler *handlers.AuthHandler,
	matchHandler *handlers.MatchHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	sharingHandler *handlers.SharingHandler,
	importHandler *handlers.ImportHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if rateLimit.Enabled {
		router.Use(middleware.RateLimit(rateLimit.RequestsPerWindow, rateLimit.Window))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/docs/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/auth/me", authHandler.Me)

		r.Post("/results", matchHandler.SubmitResults)
		r.Get("/matches", matchHandler.ListMatches)
		r.Put("/matches/{id}", matchHandler.UpdateMatch)
		r.Delete("/matches/{id}", matchHandler.DeleteMatch)

		r.Get("/tournaments", matchHandler.ListTournaments)
		r.Delete("/tournaments/{id}", matchHandler.DeleteTournament)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/players", analyticsHandler.GetAllPlayerStats)
			r.Get("/players/{id}", analyticsHandler.GetPlayerStats)
			r.Get("/tournaments", analyticsHandler.GetAllTournamentStats)
			r.Get("/tournaments/{id}", analyticsHandler.GetTournamentStats)
			r.Get("/head-to-head", analyticsHandler.GetHeadToHead)
			r.Get("/dashboard", analyticsHandler.GetDashboard)
		})

		r.Post("/import/players", importHandler.ImportPlayers)
		r.Post("/import/results", importHandler.ImportResults)

		r.Route("/shares", func(r chi.Router) {
			r.Post("/", sharingHandler.Share)
			r.Delete("/{id}", sharingHandler.Unshare)
			r.Get("/incoming", sharingHandler.ListIncoming)
			r.Get("/outgoing", sharingHandler.ListOutgoing)
		})
	})
}
