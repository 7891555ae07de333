package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/scoring"
	"github.com/inclusion-hub/heva/internal/users"
)

// ErrUnavailable means the snapshot could not be loaded or saved. Callers
// should report analytics as unavailable and not retry.
var ErrUnavailable = errors.New("analytics unavailable")

// Updater recomputes and stores a user's analytics snapshot.
type Updater struct {
	repo      Repository
	credit    *scoring.CreditScorer
	inclusion *scoring.InclusionScorer
	logger    *slog.Logger
}

// NewUpdater builds an Updater.
func NewUpdater(repo Repository, credit *scoring.CreditScorer, inclusion *scoring.InclusionScorer, logger *slog.Logger) *Updater {
	return &Updater{repo: repo, credit: credit, inclusion: inclusion, logger: logging.Component(logger, "analytics.updater")}
}

// Update fully recomputes the user's snapshot and overwrites the stored row.
func (u *Updater) Update(ctx context.Context, user users.User) (UserAnalytics, error) {
	snapshot, err := u.repo.Get(ctx, user.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		snapshot = UserAnalytics{UserID: user.ID}
	case err != nil:
		u.logger.ErrorContext(ctx, "load analytics failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return UserAnalytics{}, ErrUnavailable
	}

	snapshot.CreditScore = u.credit.Score(ctx, user.ID)
	snapshot.InclusionScore = u.inclusion.Score(ctx, user)
	snapshot.RiskLevel = scoring.RiskLevel(snapshot.CreditScore, snapshot.InclusionScore)
	snapshot.LastUpdated = time.Now().UTC()

	if err := u.repo.Upsert(ctx, snapshot); err != nil {
		u.logger.ErrorContext(ctx, "save analytics failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return UserAnalytics{}, ErrUnavailable
	}
	return snapshot, nil
}
