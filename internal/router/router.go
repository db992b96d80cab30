package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"session-auth/internal/config"
	"session-auth/internal/handler"
	"session-auth/internal/metrics"
	"session-auth/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authorizer middleware.Authorizer, handlers Handlers, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(rec.Middleware)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORSOrigins, cfg.TokenHeader))

	r.Get("/health", handlers.Health.Live)
	r.Get("/ready", handlers.Health.Ready)
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", handlers.Auth.Register)
		api.Post("/login", handlers.Auth.Login)
		api.Post("/logout", handlers.Auth.Logout)
		api.Post("/forgot-password", handlers.Auth.ForgotPassword)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(authorizer, rec))

			admin.Get("/dashboard", handlers.Admin.Dashboard)
			admin.Delete("/session/{id}", handlers.Admin.DeleteSession)
		})
	})

	return r
}
