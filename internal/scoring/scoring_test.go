package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/stories"
	"github.com/inclusion-hub/heva/internal/users"
)

// incomes splits totalCents across n income entries.
func incomes(totalCents int64, n int) []finance.Entry {
	out := make([]finance.Entry, 0, n)
	per := totalCents / int64(n)
	for i := 0; i < n; i++ {
		amount := per
		if i == n-1 {
			amount = totalCents - per*int64(n-1)
		}
		out = append(out, finance.Entry{ID: uuid.NewString(), Kind: finance.KindIncome, AmountCents: amount})
	}
	return out
}

func TestCreditTier(t *testing.T) {
	cases := []struct {
		name    string
		entries []finance.Entry
		want    Tier
	}{
		{name: "no entries", entries: nil, want: TierLow},
		{name: "10001 over 6", entries: incomes(10_001_00, 6), want: TierHigh},
		{name: "10001 over 5 frequency strict", entries: incomes(10_001_00, 5), want: TierMedium},
		{name: "10000 over 6 amount strict", entries: incomes(10_000_00, 6), want: TierMedium},
		{name: "5001 over 4", entries: incomes(5_001_00, 4), want: TierMedium},
		{name: "5000 over 4 amount strict", entries: incomes(5_000_00, 4), want: TierLow},
		{name: "5001 over 3 frequency strict", entries: incomes(5_001_00, 3), want: TierLow},
		{
			name: "expenses and funding ignored",
			entries: append(incomes(6_000_00, 4),
				finance.Entry{Kind: finance.KindExpense, AmountCents: 9_000_00},
				finance.Entry{Kind: finance.KindFunding, AmountCents: 50_000_00},
			),
			want: TierMedium,
		},
		{name: "only expenses", entries: []finance.Entry{{Kind: finance.KindExpense, AmountCents: 100}}, want: TierLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CreditTier(tc.entries); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestInclusionScore(t *testing.T) {
	if got := InclusionScore(InclusionSignals{}); got != 0 {
		t.Fatalf("expected 0 with no signals, got %d", got)
	}
	all := InclusionSignals{HasDevice: true, HasLiteracy: true, HasSocialProof: true, HasStory: true, HasEntry: true}
	if got := InclusionScore(all); got != 100 {
		t.Fatalf("expected 100 with all signals, got %d", got)
	}
	partial := InclusionSignals{HasDevice: true, HasStory: true, HasEntry: true}
	if got := InclusionScore(partial); got != 60 {
		t.Fatalf("expected 60 with three signals, got %d", got)
	}
}

func TestRiskLevel(t *testing.T) {
	cases := []struct {
		credit    Tier
		inclusion int
		want      Tier
	}{
		{TierHigh, 81, TierLow},
		{TierHigh, 80, TierHigh},
		{TierHigh, 100, TierLow},
		{TierMedium, 61, TierMedium},
		{TierMedium, 60, TierHigh},
		{TierMedium, 100, TierMedium},
		{TierLow, 100, TierHigh},
	}
	for _, tc := range cases {
		if got := RiskLevel(tc.credit, tc.inclusion); got != tc.want {
			t.Fatalf("RiskLevel(%s, %d) = %s, want %s", tc.credit, tc.inclusion, got, tc.want)
		}
	}
}

type failingEntries struct{}

func (failingEntries) List(context.Context, finance.Filter) ([]finance.Entry, error) {
	return nil, errors.New("connection reset")
}

type failingStories struct{}

func (failingStories) List(context.Context, stories.Filter) ([]stories.Story, error) {
	return nil, errors.New("connection reset")
}

func TestCreditScorerUsesRepository(t *testing.T) {
	ctx := context.Background()
	repo := finance.NewMemoryRepository()
	userID := uuid.NewString()
	for _, e := range incomes(12_000_00, 6) {
		e.UserID = userID
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	other := finance.Entry{ID: uuid.NewString(), UserID: uuid.NewString(), Kind: finance.KindIncome, AmountCents: 1}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	scorer := NewCreditScorer(repo, logging.Discard())
	if got := scorer.Score(ctx, userID); got != TierHigh {
		t.Fatalf("expected High, got %s", got)
	}
	if got := scorer.Score(ctx, uuid.NewString()); got != TierLow {
		t.Fatalf("expected Low for user without entries, got %s", got)
	}
}

func TestScorersFailSafe(t *testing.T) {
	ctx := context.Background()
	user := users.User{ID: uuid.NewString(), PrimaryDevice: "smartphone", LiteracyLevel: "fluent"}

	if got := NewCreditScorer(failingEntries{}, nil).Score(ctx, user.ID); got != TierLow {
		t.Fatalf("expected Low on failure, got %s", got)
	}
	if got := NewInclusionScorer(failingStories{}, finance.NewMemoryRepository(), nil).Score(ctx, user); got != 0 {
		t.Fatalf("expected 0 on story failure, got %d", got)
	}
	if got := NewInclusionScorer(stories.NewMemoryRepository(), failingEntries{}, nil).Score(ctx, user); got != 0 {
		t.Fatalf("expected 0 on entry failure, got %d", got)
	}
}

func TestInclusionScorerCountsSignals(t *testing.T) {
	ctx := context.Background()
	storyRepo := stories.NewMemoryRepository()
	entryRepo := finance.NewMemoryRepository()
	scorer := NewInclusionScorer(storyRepo, entryRepo, logging.Discard())

	user := users.User{ID: uuid.NewString()}
	if got := scorer.Score(ctx, user); got != 0 {
		t.Fatalf("expected 0 for bare profile, got %d", got)
	}

	user.PrimaryDevice = "feature_phone"
	user.SocialProof = users.SocialProof{Relationship: "neighbour"}
	if got := scorer.Score(ctx, user); got != 20 {
		t.Fatalf("social proof without a reference name must not count, got %d", got)
	}

	user.LiteracyLevel = "basic"
	user.SocialProof.ReferenceName = "Mama Grace"
	if err := storyRepo.Create(ctx, stories.Story{ID: uuid.NewString(), UserID: user.ID, Status: stories.StatusPending}); err != nil {
		t.Fatalf("seed story: %v", err)
	}
	if got := scorer.Score(ctx, user); got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}

	if err := entryRepo.Create(ctx, finance.Entry{ID: uuid.NewString(), UserID: user.ID, Kind: finance.KindExpense, AmountCents: 100}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if got := scorer.Score(ctx, user); got != MaxInclusionScore {
		t.Fatalf("expected 100, got %d", got)
	}
}
