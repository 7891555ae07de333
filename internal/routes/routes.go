package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/inclusion-hub/heva/internal/analytics"
	"github.com/inclusion-hub/heva/internal/config"
	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/middleware"
	"github.com/inclusion-hub/heva/internal/notification"
	"github.com/inclusion-hub/heva/internal/scoring"
	"github.com/inclusion-hub/heva/internal/stories"
	"github.com/inclusion-hub/heva/internal/users"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Services exposes the wired services the process runs outside HTTP.
type Services struct {
	Metrics *analytics.MetricsService
}

type repositories struct {
	users     users.Repository
	entries   finance.Repository
	stories   stories.Repository
	analytics analytics.Repository
	metrics   analytics.MetricsRepository
	dashboard analytics.DashboardSource
}

// newRepositories picks Postgres when a pool is present, otherwise in-memory
// stores for local development.
func newRepositories(db *pgxpool.Pool) repositories {
	if db != nil {
		store := analytics.NewPostgresRepository(db)
		return repositories{
			users:     users.NewPostgresRepository(db),
			entries:   finance.NewPostgresRepository(db),
			stories:   stories.NewPostgresRepository(db),
			analytics: store,
			metrics:   store,
			dashboard: analytics.NewPostgresSource(db),
		}
	}
	userRepo := users.NewMemoryRepository()
	entryRepo := finance.NewMemoryRepository()
	storyRepo := stories.NewMemoryRepository()
	store := analytics.NewMemoryRepository()
	return repositories{
		users:     userRepo,
		entries:   entryRepo,
		stories:   storyRepo,
		analytics: store,
		metrics:   store,
		dashboard: analytics.NewScanSource(userRepo, entryRepo, storyRepo),
	}
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) (*Services, error) {
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return nil, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	loc, err := d.Cfg.Location()
	if err != nil {
		return nil, err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(logging.Component(d.Logger, "http")))

	RegisterHealthRoutes(app, d)

	repos := newRepositories(d.DB)

	userSvc := users.NewService(repos.users)
	financeSvc := finance.NewService(repos.entries, repos.users)
	notifier := notification.NewLoggerNotifier(logging.Component(d.Logger, "notification"))
	storySvc := stories.NewService(repos.stories, repos.users, notifier, d.Logger)

	scoringLogger := logging.Component(d.Logger, "scoring")
	credit := scoring.NewCreditScorer(repos.entries, scoringLogger)
	inclusion := scoring.NewInclusionScorer(repos.stories, repos.entries, scoringLogger)

	analyticsLogger := logging.Component(d.Logger, "analytics")
	updater := analytics.NewUpdater(repos.analytics, credit, inclusion, analyticsLogger)
	aggregator := analytics.NewAggregator(repos.dashboard, loc, analyticsLogger)
	metricsSvc := analytics.NewMetricsService(aggregator, repos.metrics, analyticsLogger)

	api := app.Group("/api/v1")
	if d.Cache != nil {
		api.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, logging.Component(d.Logger, "idempotency")))
	}
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterUserRoutes(api, users.NewHandler(userSvc))
	RegisterFinanceRoutes(api, finance.NewHandler(financeSvc))
	RegisterStoryRoutes(api, stories.NewHandler(storySvc))
	limiter := middleware.RateLimit(d.Cache, "user-analytics", d.Cfg.RateLimitPerMinute, logging.Component(d.Logger, "ratelimit"))
	RegisterAnalyticsRoutes(api, analytics.NewHandler(userSvc, updater, aggregator, metricsSvc), limiter)

	return &Services{Metrics: metricsSvc}, nil
}
