package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/users"
)

// RegisterUserRoutes wires registration and profile endpoints.
func RegisterUserRoutes(router fiber.Router, h *users.Handler) {
	router.Post("/users", h.Register)
	router.Get("/users/:userId", h.Get)
	router.Patch("/users/:userId", h.UpdateProfile)
}
