package stories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/notification"
	"github.com/inclusion-hub/heva/internal/users"
)

// Moderation decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var (
	// ErrInvalidStory is returned when a submission lacks a title or a body.
	ErrInvalidStory = errors.New("invalid story")
	// ErrInvalidDecision is returned for decisions other than approve or reject.
	ErrInvalidDecision = errors.New("invalid moderation decision")
	// ErrNotModerator is returned when the acting user may not moderate stories.
	ErrNotModerator = errors.New("user may not moderate stories")
)

// Service coordinates story submission and moderation.
type Service struct {
	repo     Repository
	users    users.Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds a story service. A nil notifier disables notifications.
func NewService(repo Repository, userRepo users.Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: userRepo, notifier: notifier, logger: logging.Component(logger, "stories")}
}

// SubmitInput captures a new story.
type SubmitInput struct {
	UserID   string
	Title    string
	Content  string
	AudioURL string
	Tags     []string
}

// Submit stores a new story in the pending state.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Story, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Story{}, fmt.Errorf("%w: title is required", ErrInvalidStory)
	}
	if strings.TrimSpace(input.Content) == "" && strings.TrimSpace(input.AudioURL) == "" {
		return Story{}, fmt.Errorf("%w: content or audio is required", ErrInvalidStory)
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return Story{}, err
	}

	story := Story{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Title:       title,
		Content:     input.Content,
		AudioURL:    input.AudioURL,
		Tags:        normalizeTags(input.Tags),
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, story); err != nil {
		return Story{}, err
	}
	return story, nil
}

// ListByUser returns a user's stories, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Story, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{UserID: userID})
}

// ListPending returns the moderation queue, newest first.
func (s *Service) ListPending(ctx context.Context) ([]Story, error) {
	return s.repo.List(ctx, Filter{Status: StatusPending})
}

// ModerateInput captures a moderation decision.
type ModerateInput struct {
	StoryID     string
	ModeratorID string
	Decision    string
}

// Moderate moves a pending story to approved or rejected and notifies its owner.
func (s *Service) Moderate(ctx context.Context, input ModerateInput) (Story, error) {
	var status string
	switch strings.ToLower(input.Decision) {
	case DecisionApprove:
		status = StatusApproved
	case DecisionReject:
		status = StatusRejected
	default:
		return Story{}, fmt.Errorf("%w: %q", ErrInvalidDecision, input.Decision)
	}

	moderator, err := s.users.FindByID(ctx, input.ModeratorID)
	if err != nil {
		return Story{}, err
	}
	if moderator.UserType != users.TypeAdmin && moderator.UserType != users.TypeAgent {
		return Story{}, ErrNotModerator
	}

	story, err := s.repo.Get(ctx, input.StoryID)
	if err != nil {
		return Story{}, err
	}
	if story.Status != StatusPending {
		return Story{}, ErrAlreadyModerated
	}

	story.Status = status
	if status == StatusApproved {
		now := time.Now().UTC()
		story.ApprovedAt = &now
		story.ApprovedBy = moderator.ID
	}
	if err := s.repo.UpdateModeration(ctx, story); err != nil {
		return Story{}, err
	}

	s.notifyOwner(ctx, story)
	return story, nil
}

func (s *Service) notifyOwner(ctx context.Context, story Story) {
	if s.notifier == nil {
		return
	}
	owner, err := s.users.FindByID(ctx, story.UserID)
	if err != nil {
		s.logger.Warn("story owner lookup failed", slog.String("story_id", story.ID), slog.Any("error", err))
		return
	}
	msg := notification.Message{
		Kind:        notification.KindStoryRejected,
		UserID:      owner.ID,
		Destination: owner.Phone,
		Body:        fmt.Sprintf("Your story %q was not approved.", story.Title),
	}
	if story.Status == StatusApproved {
		msg.Kind = notification.KindStoryApproved
		msg.Body = fmt.Sprintf("Your story %q has been approved.", story.Title)
	}
	if msg.Destination == "" {
		msg.Destination = owner.Email
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("story notification failed", slog.String("story_id", story.ID), slog.Any("error", err))
	}
}
