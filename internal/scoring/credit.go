package scoring

import (
	"context"
	"log/slog"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
)

// Income thresholds are in minor units; both comparisons are strict.
const (
	highIncomeCents       int64 = 10_000_00
	highIncomeFrequency         = 5
	mediumIncomeCents     int64 = 5_000_00
	mediumIncomeFrequency       = 3
)

// CreditTier reduces a user's entries to a tier from total income and the
// number of income entries.
func CreditTier(entries []finance.Entry) Tier {
	if len(entries) == 0 {
		return TierLow
	}

	var totalIncome int64
	var frequency int
	for _, e := range entries {
		if e.Kind != finance.KindIncome {
			continue
		}
		totalIncome += e.AmountCents
		frequency++
	}

	switch {
	case totalIncome > highIncomeCents && frequency > highIncomeFrequency:
		return TierHigh
	case totalIncome > mediumIncomeCents && frequency > mediumIncomeFrequency:
		return TierMedium
	default:
		return TierLow
	}
}

// CreditScorer loads a user's entries and scores them with CreditTier.
type CreditScorer struct {
	entries EntrySource
	logger  *slog.Logger
}

// NewCreditScorer builds a credit scorer over the given entry source.
func NewCreditScorer(entries EntrySource, logger *slog.Logger) *CreditScorer {
	return &CreditScorer{entries: entries, logger: logging.Component(logger, "scoring.credit")}
}

// Score returns the user's credit tier. Lookup failures yield TierLow.
func (s *CreditScorer) Score(ctx context.Context, userID string) Tier {
	entries, err := s.entries.List(ctx, finance.Filter{UserID: userID})
	if err != nil {
		s.logger.WarnContext(ctx, "credit score defaulted", slog.String("user_id", userID), slog.Any("error", err))
		return TierLow
	}
	return CreditTier(entries)
}
