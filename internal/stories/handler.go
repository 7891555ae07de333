package stories

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/users"
)

// Handler exposes story HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a story HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	AudioFile string   `json:"audio_file"`
	Tags      []string `json:"tags"`
}

type moderateRequest struct {
	Decision    string `json:"decision"`
	ModeratorID string `json:"moderator_id"`
}

type storyResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AudioFile     string     `json:"audio_file"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	DateSubmitted time.Time  `json:"date_submitted"`
	DateApproved  *time.Time `json:"date_approved"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
}

func toResponse(s Story) storyResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return storyResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		Title:         s.Title,
		Content:       s.Content,
		AudioFile:     s.AudioURL,
		Tags:          tags,
		Status:        s.Status,
		DateSubmitted: s.SubmittedAt,
		DateApproved:  s.ApprovedAt,
		ApprovedBy:    s.ApprovedBy,
	}
}

func toResponses(list []Story) []storyResponse {
	out := make([]storyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toResponse(s))
	}
	return out
}

// Submit stores a story for the user in the path.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	story, err := h.service.Submit(c.UserContext(), SubmitInput{
		UserID:   c.Params("userId"),
		Title:    req.Title,
		Content:  req.Content,
		AudioURL: req.AudioFile,
		Tags:     req.Tags,
	})
	if err != nil {
		return translate(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(story))
}

// List returns the user's stories.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return translate(err)
	}
	return c.Status(http.StatusOK).JSON(toResponses(list))
}

// Pending returns the moderation queue.
func (h *Handler) Pending(c *fiber.Ctx) error {
	list, err := h.service.ListPending(c.UserContext())
	if err != nil {
		return translate(err)
	}
	return c.Status(http.StatusOK).JSON(toResponses(list))
}

// Moderate applies an approve or reject decision.
func (h *Handler) Moderate(c *fiber.Ctx) error {
	var req moderateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	story, err := h.service.Moderate(c.UserContext(), ModerateInput{
		StoryID:     c.Params("storyId"),
		ModeratorID: req.ModeratorID,
		Decision:    req.Decision,
	})
	if err != nil {
		return translate(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(story))
}

func translate(err error) error {
	switch {
	case errors.Is(err, users.ErrNotFound), errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStory), errors.Is(err, ErrInvalidDecision):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotModerator):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyModerated):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
