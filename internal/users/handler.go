package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes user endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Email                 string      `json:"email"`
	Password              string      `json:"password"`
	FullName              string      `json:"full_name"`
	Phone                 string      `json:"phone"`
	Location              string      `json:"location"`
	UserType              string      `json:"user_type"`
	Gender                string      `json:"gender"`
	Disability            bool        `json:"disability"`
	DisabilityType        string      `json:"disability_type"`
	MarginalizedGroups    []string    `json:"marginalized_groups"`
	PrimaryDevice         string      `json:"primary_device"`
	LiteracyLevel         string      `json:"literacy_level"`
	SocialProof           SocialProof `json:"social_proof"`
	ConsentDataCollection bool        `json:"consent_data_collection"`
	ConsentContact        bool        `json:"consent_contact"`
}

type profileRequest struct {
	Phone              *string      `json:"phone"`
	Location           *string      `json:"location"`
	Disability         *bool        `json:"disability"`
	DisabilityType     *string      `json:"disability_type"`
	MarginalizedGroups []string     `json:"marginalized_groups"`
	PrimaryDevice      *string      `json:"primary_device"`
	LiteracyLevel      *string      `json:"literacy_level"`
	SocialProof        *SocialProof `json:"social_proof"`
}

type userResponse struct {
	ID                 string      `json:"id"`
	Email              string      `json:"email"`
	FullName           string      `json:"full_name"`
	Phone              string      `json:"phone"`
	Location           string      `json:"location"`
	UserType           string      `json:"user_type"`
	Gender             string      `json:"gender"`
	Disability         bool        `json:"disability"`
	DisabilityType     string      `json:"disability_type"`
	MarginalizedGroups []string    `json:"marginalized_groups"`
	PrimaryDevice      string      `json:"primary_device"`
	LiteracyLevel      string      `json:"literacy_level"`
	SocialProof        SocialProof `json:"social_proof"`
	DateJoined         time.Time   `json:"date_joined"`
}

func toResponse(u User) userResponse {
	groups := u.MarginalizedGroups
	if groups == nil {
		groups = []string{}
	}
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		Phone:              u.Phone,
		Location:           u.Location,
		UserType:           u.UserType,
		Gender:             u.Gender,
		Disability:         u.Disability,
		DisabilityType:     u.DisabilityType,
		MarginalizedGroups: groups,
		PrimaryDevice:      u.PrimaryDevice,
		LiteracyLevel:      u.LiteracyLevel,
		SocialProof:        u.SocialProof,
		DateJoined:         u.DateJoined,
	}
}

// Register handles user onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Register(c.UserContext(), Registration{
		Email:                 req.Email,
		Password:              req.Password,
		FullName:              req.FullName,
		Phone:                 req.Phone,
		Location:              req.Location,
		UserType:              req.UserType,
		Gender:                req.Gender,
		Disability:            req.Disability,
		DisabilityType:        req.DisabilityType,
		MarginalizedGroups:    req.MarginalizedGroups,
		PrimaryDevice:         req.PrimaryDevice,
		LiteracyLevel:         req.LiteracyLevel,
		SocialProof:           req.SocialProof,
		ConsentDataCollection: req.ConsentDataCollection,
		ConsentContact:        req.ConsentContact,
	})
	switch {
	case errors.Is(err, ErrEmailTaken):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRegistration):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case err != nil:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(user))
}

// Get returns a single user profile.
func (h *Handler) Get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return lookupError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(user))
}

// UpdateProfile applies a partial profile edit.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.UpdateProfile(c.UserContext(), c.Params("userId"), ProfileUpdate{
		Phone:              req.Phone,
		Location:           req.Location,
		Disability:         req.Disability,
		DisabilityType:     req.DisabilityType,
		MarginalizedGroups: req.MarginalizedGroups,
		PrimaryDevice:      req.PrimaryDevice,
		LiteracyLevel:      req.LiteracyLevel,
		SocialProof:        req.SocialProof,
	})
	if err != nil {
		return lookupError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(user))
}

func lookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
