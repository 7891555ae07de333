package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/users"
)

// Handler exposes financial entry HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a finance HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type recordRequest struct {
	// Accepts either 1250.50 or "1250.50".
	Amount      json.Number `json:"amount"`
	Kind        string      `json:"entry_type"`
	Description string      `json:"description"`
	Source      string      `json:"source"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      string    `json:"amount"`
	Kind        string    `json:"entry_type"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Date        time.Time `json:"date"`
}

func toResponse(e Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      FormatAmount(e.AmountCents),
		Kind:        e.Kind,
		Description: e.Description,
		Source:      e.Source,
		Date:        e.Date,
	}
}

// Record stores a new entry for the user in the path.
func (h *Handler) Record(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.service.Record(c.UserContext(), RecordInput{
		UserID:      c.Params("userId"),
		Amount:      req.Amount.String(),
		Kind:        req.Kind,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		return translate(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(entry))
}

// List returns the user's entries, optionally filtered with ?entry_type=.
func (h *Handler) List(c *fiber.Ctx) error {
	entries, err := h.service.ListByUser(c.UserContext(), c.Params("userId"), c.Query("entry_type"))
	if err != nil {
		return translate(err)
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	return c.Status(http.StatusOK).JSON(out)
}

func translate(err error) error {
	switch {
	case errors.Is(err, users.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidKind), errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
