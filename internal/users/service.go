package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ErrInvalidRegistration wraps every rejected registration field.
var ErrInvalidRegistration = errors.New("invalid registration")

// Service manages the user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user and stores a bcrypt hash of the password.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidRegistration)
	}
	if len(reg.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, minPasswordLength)
	}
	if strings.TrimSpace(reg.FullName) == "" {
		return User{}, fmt.Errorf("%w: full name is required", ErrInvalidRegistration)
	}

	userType := reg.UserType
	if userType == "" {
		userType = TypeCreative
	}
	if !userTypes[userType] {
		return User{}, fmt.Errorf("%w: unknown user type %q", ErrInvalidRegistration, userType)
	}
	gender := reg.Gender
	if gender == "" {
		gender = GenderPreferNotToSay
	}
	if !genders[gender] {
		return User{}, fmt.Errorf("%w: unknown gender %q", ErrInvalidRegistration, gender)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:                    uuid.New().String(),
		Email:                 email,
		FullName:              strings.TrimSpace(reg.FullName),
		Phone:                 reg.Phone,
		Location:              reg.Location,
		UserType:              userType,
		Gender:                gender,
		Disability:            reg.Disability,
		DisabilityType:        reg.DisabilityType,
		MarginalizedGroups:    normalizeGroups(reg.MarginalizedGroups),
		PrimaryDevice:         strings.TrimSpace(reg.PrimaryDevice),
		LiteracyLevel:         strings.TrimSpace(reg.LiteracyLevel),
		SocialProof:           reg.SocialProof.trimmed(),
		ConsentDataCollection: reg.ConsentDataCollection,
		ConsentContact:        reg.ConsentContact,
		PasswordHash:          hash,
		DateJoined:            time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Get retrieves a user by identifier.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of the update and persists the result.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	user = update.apply(user)
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}
