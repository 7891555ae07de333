package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/stories"
)

// RegisterStoryRoutes wires story submission and moderation endpoints.
func RegisterStoryRoutes(router fiber.Router, h *stories.Handler) {
	router.Post("/users/:userId/stories", h.Submit)
	router.Get("/users/:userId/stories", h.List)
	router.Get("/stories/pending", h.Pending)
	router.Post("/stories/:storyId/moderation", h.Moderate)
}
