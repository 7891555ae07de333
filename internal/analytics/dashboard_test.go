package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/stories"
	"github.com/inclusion-hub/heva/internal/users"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

type store struct {
	users   users.Repository
	entries finance.Repository
	stories stories.Repository
}

func newStore() store {
	return store{users: users.NewMemoryRepository(), entries: finance.NewMemoryRepository(), stories: stories.NewMemoryRepository()}
}

func (s store) aggregator(loc *time.Location) *Aggregator {
	a := NewAggregator(NewScanSource(s.users, s.entries, s.stories), loc, logging.Discard())
	a.now = func() time.Time { return fixedNow }
	return a
}

func (s store) addUser(t *testing.T, u users.User) users.User {
	t.Helper()
	u.ID = uuid.NewString()
	u.Email = u.ID + "@example.org"
	if u.UserType == "" {
		u.UserType = users.TypeCreative
	}
	if err := s.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (s store) addEntry(t *testing.T, userID, kind string, cents int64) {
	t.Helper()
	e := finance.Entry{ID: uuid.NewString(), UserID: userID, Kind: kind, AmountCents: cents, Date: fixedNow}
	if err := s.entries.Create(context.Background(), e); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func (s store) addStory(t *testing.T, userID, status string, submitted time.Time, tags ...string) {
	t.Helper()
	st := stories.Story{ID: uuid.NewString(), UserID: userID, Status: status, SubmittedAt: submitted, Tags: tags}
	if err := s.stories.Create(context.Background(), st); err != nil {
		t.Fatalf("seed story: %v", err)
	}
}

type failingSource struct{}

func (failingSource) DashboardCounts(context.Context, time.Time, time.Time) (DashboardCounts, error) {
	return DashboardCounts{}, errors.New("relation \"stories\" does not exist")
}

func TestReportEmptyStoreHasZeroPercentages(t *testing.T) {
	report, err := newStore().aggregator(nil).Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report != (DashboardReport{}) {
		t.Fatalf("expected zero report, got %+v", report)
	}
}

func TestReportAggregatesAcrossStore(t *testing.T) {
	s := newStore()
	yesterday := fixedNow.AddDate(0, 0, -1)

	refugee := s.addUser(t, users.User{MarginalizedGroups: []string{users.GroupRefugee}, DateJoined: fixedNow.Add(-time.Hour)})
	s.addUser(t, users.User{Disability: true, MarginalizedGroups: []string{users.GroupPWD}, DateJoined: yesterday})
	s.addUser(t, users.User{MarginalizedGroups: []string{users.GroupLGBTQI, users.GroupRefugee}, DateJoined: yesterday})
	s.addUser(t, users.User{UserType: users.TypeAgent, DateJoined: yesterday})

	s.addEntry(t, refugee.ID, finance.KindIncome, 1_500_50)
	s.addEntry(t, refugee.ID, finance.KindIncome, 500_00)
	s.addEntry(t, refugee.ID, finance.KindExpense, 750_25)
	s.addEntry(t, refugee.ID, finance.KindFunding, 10_000_00)

	s.addStory(t, refugee.ID, stories.StatusApproved, yesterday, stories.TagUrgency)
	s.addStory(t, refugee.ID, stories.StatusPending, fixedNow.Add(-2*time.Hour), "refugee")
	s.addStory(t, refugee.ID, stories.StatusRejected, fixedNow.Add(-time.Minute), stories.TagUrgency)

	report, err := s.aggregator(time.UTC).Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	demo := report.UserDemographics
	if demo.TotalUsers != 4 || demo.MarginalizedUsers != 2 || demo.PWDUsers != 1 || demo.LGBTQIUsers != 1 || demo.NewUsersToday != 1 {
		t.Fatalf("unexpected demographics: %+v", demo)
	}

	fin := report.FinancialAnalytics
	if fin.TotalIncome != 2000.50 || fin.TotalExpenses != 750.25 || fin.NetFlow != 1250.25 {
		t.Fatalf("unexpected financials: %+v", fin)
	}

	st := report.StoryAnalytics
	if st.TotalStories != 3 || st.ApprovedStories != 1 || st.UrgentStories != 2 || st.NewStoriesToday != 2 {
		t.Fatalf("unexpected stories: %+v", st)
	}

	pct := report.InclusionMetrics
	if pct.MarginalizedPercentage != 50 || pct.PWDPercentage != 25 || pct.LGBTQIPercentage != 25 {
		t.Fatalf("unexpected percentages: %+v", pct)
	}
}

func TestReportTodayFollowsTimezone(t *testing.T) {
	s := newStore()
	// 23:30 UTC on the 18th is already the 19th in Nairobi (UTC+3).
	s.addUser(t, users.User{DateJoined: time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)})

	utc, err := s.aggregator(time.UTC).Report(context.Background())
	if err != nil {
		t.Fatalf("utc report: %v", err)
	}
	if utc.UserDemographics.NewUsersToday != 0 {
		t.Fatalf("expected no new users today in UTC")
	}

	nairobi := time.FixedZone("EAT", 3*60*60)
	local, err := s.aggregator(nairobi).Report(context.Background())
	if err != nil {
		t.Fatalf("local report: %v", err)
	}
	if local.UserDemographics.NewUsersToday != 1 {
		t.Fatalf("expected one new user today in EAT")
	}
}

func TestReportFailureIsGeneric(t *testing.T) {
	a := NewAggregator(failingSource{}, nil, logging.Discard())
	report, err := a.Report(context.Background())
	if !errors.Is(err, ErrDashboardUnavailable) {
		t.Fatalf("expected ErrDashboardUnavailable, got %v", err)
	}
	if report != (DashboardReport{}) {
		t.Fatalf("expected no partial report, got %+v", report)
	}
}

func TestBuildReportPercentages(t *testing.T) {
	report := BuildReport(DashboardCounts{TotalUsers: 3, RefugeeUsers: 1})
	if math.Abs(report.InclusionMetrics.MarginalizedPercentage-33.3333333) > 1e-6 {
		t.Fatalf("unexpected percentage %f", report.InclusionMetrics.MarginalizedPercentage)
	}
	if BuildReport(DashboardCounts{RefugeeUsers: 5}).InclusionMetrics.MarginalizedPercentage != 0 {
		t.Fatalf("expected 0 percentage without users")
	}
}

func TestMetricsSnapshotUpsertsPerDay(t *testing.T) {
	s := newStore()
	u := s.addUser(t, users.User{MarginalizedGroups: []string{users.GroupPWD}, Disability: true, DateJoined: fixedNow})
	s.addEntry(t, u.ID, finance.KindIncome, 100_00)
	s.addEntry(t, u.ID, finance.KindIncome, 300_00)
	s.addEntry(t, u.ID, finance.KindFunding, 50_00)

	repo := NewMemoryRepository()
	svc := NewMetricsService(s.aggregator(time.UTC), repo, logging.Discard())
	ctx := context.Background()

	m, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if m.Date.Format(dateLayout) != "2026-10-19" {
		t.Fatalf("unexpected snapshot date %s", m.Date)
	}
	if m.MarginalizedUsers != 1 || m.PWDUsers != 1 || m.CreativeUsers != 1 || m.AvgIncomeCents != 200_00 || m.FundingRequests != 1 {
		t.Fatalf("unexpected snapshot: %+v", m)
	}

	s.addUser(t, users.User{DateJoined: fixedNow})
	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	list, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].TotalUsers != 2 {
		t.Fatalf("expected one refreshed row for the day, got %+v", list)
	}
}

func TestMetricsRunStopsOnCancel(t *testing.T) {
	svc := NewMetricsService(newStore().aggregator(nil), NewMemoryRepository(), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}

	list, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected scheduled snapshot to be stored, got %d", len(list))
	}
}
