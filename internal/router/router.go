package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-feedback-gate/internal/config"
	"go-feedback-gate/internal/handler"
	"go-feedback-gate/internal/metrics"
	"go-feedback-gate/internal/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	FeedbackPage *handler.FeedbackPageHandler
	Public       *handler.PublicHandler
	Health       *handler.HealthHandler
	Docs         *handler.DocsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/docs", h.Docs.SwaggerUI)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/verify", h.Auth.Verify)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/feedback-pages", func(pages chi.Router) {
			pages.Use(authMiddleware.RequireAuth)
			pages.Post("/", h.FeedbackPage.Create)
			pages.Get("/", h.FeedbackPage.List)
			pages.Get("/{id}", h.FeedbackPage.Get)
			pages.Put("/{id}", h.FeedbackPage.Update)
			pages.Delete("/{id}", h.FeedbackPage.Delete)
		})

		api.Get("/resource/{urlToken}", h.Public.Resolve)
		api.Get("/resource/{urlToken}/expired", h.Public.Expired)
	})

	return r
}
