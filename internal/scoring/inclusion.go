package scoring

import (
	"context"
	"log/slog"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/stories"
	"github.com/inclusion-hub/heva/internal/users"
)

const (
	signalWeight = 20
	// MaxInclusionScore caps the inclusion score.
	MaxInclusionScore = 100
)

// InclusionSignals records which profile and activity signals a user shows.
type InclusionSignals struct {
	HasDevice      bool
	HasLiteracy    bool
	HasSocialProof bool
	HasStory       bool
	HasEntry       bool
}

// InclusionScore adds signalWeight per present signal, capped at MaxInclusionScore.
func InclusionScore(sig InclusionSignals) int {
	score := 0
	for _, present := range []bool{sig.HasDevice, sig.HasLiteracy, sig.HasSocialProof, sig.HasStory, sig.HasEntry} {
		if present {
			score += signalWeight
		}
	}
	return min(score, MaxInclusionScore)
}

// InclusionScorer derives inclusion signals from a user's profile and records.
type InclusionScorer struct {
	stories StorySource
	entries EntrySource
	logger  *slog.Logger
}

// NewInclusionScorer builds an inclusion scorer.
func NewInclusionScorer(storySource StorySource, entries EntrySource, logger *slog.Logger) *InclusionScorer {
	return &InclusionScorer{stories: storySource, entries: entries, logger: logging.Component(logger, "scoring.inclusion")}
}

// Score returns the user's inclusion score in [0,100]. Lookup failures yield 0.
func (s *InclusionScorer) Score(ctx context.Context, user users.User) int {
	userStories, err := s.stories.List(ctx, stories.Filter{UserID: user.ID})
	if err != nil {
		s.logger.WarnContext(ctx, "inclusion score defaulted", slog.String("user_id", user.ID), slog.Any("error", err))
		return 0
	}
	entries, err := s.entries.List(ctx, finance.Filter{UserID: user.ID})
	if err != nil {
		s.logger.WarnContext(ctx, "inclusion score defaulted", slog.String("user_id", user.ID), slog.Any("error", err))
		return 0
	}

	return InclusionScore(InclusionSignals{
		HasDevice:      user.PrimaryDevice != "",
		HasLiteracy:    user.LiteracyLevel != "",
		HasSocialProof: user.HasSocialProof(),
		HasStory:       len(userStories) > 0,
		HasEntry:       len(entries) > 0,
	})
}
