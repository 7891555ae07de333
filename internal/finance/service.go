package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inclusion-hub/heva/internal/users"
)

// Service records and lists financial entries for registered users.
type Service struct {
	repo  Repository
	users users.Repository
}

// NewService builds a finance service instance.
func NewService(repo Repository, userRepo users.Repository) *Service {
	return &Service{repo: repo, users: userRepo}
}

// RecordInput captures data required to record an entry.
type RecordInput struct {
	UserID      string
	Amount      string
	Kind        string
	Description string
	Source      string
}

// Record validates and stores a new entry. Entries are never modified afterwards.
func (s *Service) Record(ctx context.Context, input RecordInput) (Entry, error) {
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if !ValidKind(kind) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidKind, input.Kind)
	}
	cents, err := ParseAmount(input.Amount)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		AmountCents: cents,
		Kind:        kind,
		Description: input.Description,
		Source:      input.Source,
		Date:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// ListByUser returns the user's entries, newest first, optionally narrowed to one kind.
func (s *Service) ListByUser(ctx context.Context, userID, kind string) ([]Entry, error) {
	if kind != "" && !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{UserID: userID, Kind: kind})
}
