package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/analytics"
)

// RegisterAnalyticsRoutes wires scoring and dashboard endpoints. The per-user
// route recomputes on every read, so it sits behind the limiter.
func RegisterAnalyticsRoutes(router fiber.Router, h *analytics.Handler, limiter fiber.Handler) {
	router.Get("/users/:userId/analytics", limiter, h.UserAnalytics)
	router.Get("/analytics/dashboard", h.Dashboard)
	router.Post("/analytics/metrics/snapshot", h.Snapshot)
	router.Get("/analytics/metrics", h.Metrics)
}
