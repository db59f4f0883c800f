package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-feedback-gate/internal/config"
	"go-feedback-gate/internal/database"
	"go-feedback-gate/internal/handler"
	"go-feedback-gate/internal/metrics"
	"go-feedback-gate/internal/middleware"
	"go-feedback-gate/internal/repository"
	"go-feedback-gate/internal/router"
	"go-feedback-gate/internal/security"
	"go-feedback-gate/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.DBAutoMigrate {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("database ready")

	appHandler, err := NewHandler(cfg, db, repository.NewUserRepository(db.Pool), repository.NewFeedbackPageRepository(db.Pool))
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){db.Close},
	}, nil
}

// NewHandler assembles the HTTP surface over the given stores. Integration
// tests call it directly against a disposable database.
func NewHandler(cfg *config.Config, db *database.DB, users service.UserStore, pages service.FeedbackPageStore) (http.Handler, error) {
	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	tokens, err := security.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	m := metrics.New()

	authService := service.NewAuthService(users, hasher, tokens, service.AuthOptions{
		AccessTTL:          cfg.JWTAccessTTL,
		RefreshTTL:         cfg.JWTRefreshTTL,
		UniformLoginErrors: cfg.UniformLoginErrors,
	}, m)
	pageService := service.NewFeedbackPageService(pages)
	gate := service.NewAccessGate(pages, m)

	cookies := handler.CookieConfig{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}

	return router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cookies),
		FeedbackPage: handler.NewFeedbackPageHandler(pageService),
		Public:       handler.NewPublicHandler(gate, pageService),
		Health:       handler.NewHealthHandler(db),
		Docs:         handler.NewDocsHandler(),
	}, m), nil
}

func migrateUp(databaseURL string) (err error) {
	migrator, err := database.NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer func() {
		err = errors.Join(err, migrator.Close())
	}()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
