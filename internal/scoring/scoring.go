// Package scoring turns a user's records into coarse credit, inclusion and
// risk labels. Scorers never return errors: a failed lookup degrades to the
// most conservative value so analytics stay available.
package scoring

import (
	"context"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/stories"
)

// Tier is one of three ordinal labels used for credit scores and risk levels.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Valid reports whether t is one of the three known labels.
func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// EntrySource lists financial entries. finance.Repository satisfies it.
type EntrySource interface {
	List(ctx context.Context, filter finance.Filter) ([]finance.Entry, error)
}

// StorySource lists stories. stories.Repository satisfies it.
type StorySource interface {
	List(ctx context.Context, filter stories.Filter) ([]stories.Story, error)
}
