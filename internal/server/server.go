package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskwire/taskwire/internal/server/config"
	"github.com/taskwire/taskwire/internal/server/handlers"
	"github.com/taskwire/taskwire/internal/server/middleware"
	"github.com/taskwire/taskwire/internal/server/storage"
)

// Storage bundles the persistence interfaces the server depends on.
// The sqlite implementation satisfies all three.
type Storage interface {
	storage.UserStorage
	storage.TokenStorage
	storage.TaskStorage
}

// Server wires handlers, middleware and the HTTP listener together.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	store      Storage
	httpServer *http.Server
	sweepStop  chan struct{}
}

// New builds a fully wired server. Nothing global: every dependency is
// passed in and owned by the caller.
func New(logger *slog.Logger, cfg *config.Config, store Storage, version string) *Server {
	jwtConfig := handlers.JWTConfig{
		AccessSecret:    []byte(cfg.Auth.AccessSecret),
		RefreshSecret:   []byte(cfg.Auth.RefreshSecret),
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	taskHandler := handlers.NewTaskHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, version)

	authenticate := middleware.AuthMiddleware(logger, jwtConfig, store)
	rateLimit := middleware.RateLimitMiddleware(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.Handle("POST /auth/register", rateLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", rateLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /auth/refresh-token", rateLimit(http.HandlerFunc(authHandler.Refresh)))
	mux.Handle("POST /auth/logout", rateLimit(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("GET /tasks", authenticate(http.HandlerFunc(taskHandler.List)))
	mux.Handle("POST /tasks", authenticate(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("GET /tasks/{id}", authenticate(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PUT /tasks/{id}", authenticate(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /tasks/{id}", authenticate(http.HandlerFunc(taskHandler.Delete)))

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger: logger,
		cfg:    cfg,
		store:  store,
		httpServer: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		sweepStop: make(chan struct{}),
	}
}

// Handler exposes the composed handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the expired-token sweeper and the HTTP listener, blocking
// until the listener stops.
func (s *Server) Run() error {
	go s.sweepExpiredTokens()

	s.logger.Info("server listening", "addr", s.cfg.HTTP.Addr, "env", s.cfg.Env)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops background work.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.sweepStop)
	return s.httpServer.Shutdown(ctx)
}

// sweepExpiredTokens deletes expired refresh tokens hourly. Expired rows
// are already filtered at validation time; the sweep only reclaims space.
func (s *Server) sweepExpiredTokens() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			deleted, err := s.store.DeleteExpiredTokens(ctx)
			cancel()
			if err != nil {
				s.logger.Error("failed to sweep expired tokens", "error", err)
				continue
			}
			if deleted > 0 {
				s.logger.Info("swept expired refresh tokens", "deleted", deleted)
			}
		case <-s.sweepStop:
			return
		}
	}
}
