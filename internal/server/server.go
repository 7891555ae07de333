package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/inclusion-hub/heva/internal/analytics"
	"github.com/inclusion-hub/heva/internal/config"
	"github.com/inclusion-hub/heva/internal/middleware"
	"github.com/inclusion-hub/heva/internal/routes"
)

// Server wraps the Fiber application and the services it runs.
type Server struct {
	app     *fiber.App
	cfg     config.Config
	metrics *analytics.MetricsService
	logger  *slog.Logger
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          middleware.ErrorHandler(logger),
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	services, err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, metrics: services.Metrics, logger: logger}, nil
}

// App exposes the underlying Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// RunMetricsSnapshots records an inclusion metrics rollup every
// MetricsSnapshotInterval until ctx is cancelled. A zero interval is a no-op.
func (s *Server) RunMetricsSnapshots(ctx context.Context) {
	if s.cfg.MetricsSnapshotInterval <= 0 {
		return
	}
	s.logger.Info("metrics snapshot loop started", slog.Duration("interval", s.cfg.MetricsSnapshotInterval))
	s.metrics.Run(ctx, s.cfg.MetricsSnapshotInterval)
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
