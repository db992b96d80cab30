package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"session-auth/internal/config"
	"session-auth/internal/database"
	"session-auth/internal/handler"
	"session-auth/internal/metrics"
	"session-auth/internal/middleware"
	"session-auth/internal/repository"
	"session-auth/internal/router"
	"session-auth/internal/security"
	"session-auth/internal/service"
	"session-auth/internal/telemetry"
)

type App struct {
	server          *http.Server
	shutdownTimeout time.Duration
	cleanupFuncs    []func(context.Context)
}

type stores struct {
	users    service.UserStore
	sessions service.SessionStore
	pinger   handler.Pinger
	close    func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		st.close()
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	rec := metrics.New()
	authService := service.NewAuthService(st.users, st.sessions, security.NewHasher(cfg.BcryptCost), tokens, rec)
	sessionService := service.NewSessionService(st.sessions, cfg.Location(), rec)

	if cfg.AdminUsername != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			st.close()
			_ = shutdownTracing(ctx)
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		if created {
			slog.Info("bootstrap admin created", "username", cfg.AdminUsername)
		}
	}

	guard := middleware.NewAdminGuard(tokens, st.users, cfg.TokenHeader)
	appRouter := router.New(cfg, guard, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Admin:  handler.NewAdminHandler(sessionService),
		Health: handler.NewHealthHandler(st.pinger),
	}, rec)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           telemetry.Middleware(appRouter),
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		cleanupFuncs: []func(context.Context){
			func(context.Context) {
				st.close()
			},
			func(ctx context.Context) {
				if err := shutdownTracing(ctx); err != nil {
					slog.Error("tracer shutdown failed", "error", err)
				}
			},
		},
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store; users and sessions are lost on exit")
		return stores{
			users:    repository.NewMemoryUserRepository(),
			sessions: repository.NewMemorySessionRepository(),
			close:    func() {},
		}, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return stores{}, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("database ready")
	return stores{
		users:    repository.NewUserRepository(db.Pool),
		sessions: repository.NewSessionRepository(db.Pool),
		pinger:   db,
		close:    db.Close,
	}, nil
}

// Handler exposes the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
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
		if err != nil {
			a.cleanup(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(shutdownCtx)
	a.cleanup(shutdownCtx)

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup(ctx context.Context) {
	for _, cleanup := range a.cleanupFuncs {
		cleanup(ctx)
	}
}
