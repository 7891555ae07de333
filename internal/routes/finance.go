package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/finance"
)

// RegisterFinanceRoutes wires financial entry endpoints.
func RegisterFinanceRoutes(router fiber.Router, h *finance.Handler) {
	router.Post("/users/:userId/entries", h.Record)
	router.Get("/users/:userId/entries", h.List)
}
