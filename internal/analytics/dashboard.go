package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/logging"
)

const dateLayout = "2006-01-02"

// ErrDashboardUnavailable is the single error reported when any dashboard
// computation fails. The cause is logged, never returned.
var ErrDashboardUnavailable = errors.New("dashboard unavailable")

// Aggregator computes cross-user dashboard reports.
type Aggregator struct {
	source DashboardSource
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewAggregator builds an Aggregator. loc decides which calendar day is "today";
// nil means UTC.
func NewAggregator(source DashboardSource, loc *time.Location, logger *slog.Logger) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{source: source, loc: loc, now: time.Now, logger: logging.Component(logger, "analytics.dashboard")}
}

// today returns the bounds of the current calendar day in the report timezone.
func (a *Aggregator) today() (time.Time, time.Time) {
	now := a.now().In(a.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)
	return start, start.AddDate(0, 0, 1)
}

func (a *Aggregator) counts(ctx context.Context) (DashboardCounts, time.Time, error) {
	start, end := a.today()
	c, err := a.source.DashboardCounts(ctx, start, end)
	if err != nil {
		a.logger.ErrorContext(ctx, "dashboard counts failed", slog.Any("error", err))
		return DashboardCounts{}, start, ErrDashboardUnavailable
	}
	return c, start, nil
}

// Report builds the dashboard. It either returns a complete report or
// ErrDashboardUnavailable.
func (a *Aggregator) Report(ctx context.Context) (DashboardReport, error) {
	c, _, err := a.counts(ctx)
	if err != nil {
		return DashboardReport{}, err
	}
	return BuildReport(c), nil
}

// BuildReport derives the reporting view from raw counters.
func BuildReport(c DashboardCounts) DashboardReport {
	return DashboardReport{
		UserDemographics: UserDemographics{
			TotalUsers:        c.TotalUsers,
			MarginalizedUsers: c.RefugeeUsers,
			PWDUsers:          c.PWDUsers,
			LGBTQIUsers:       c.LGBTQIUsers,
			NewUsersToday:     c.NewUsersToday,
		},
		FinancialAnalytics: FinancialAnalytics{
			TotalIncome:   finance.Units(c.IncomeCents),
			TotalExpenses: finance.Units(c.ExpenseCents),
			NetFlow:       finance.Units(c.IncomeCents - c.ExpenseCents),
		},
		StoryAnalytics: StoryAnalytics{
			TotalStories:    c.TotalStories,
			ApprovedStories: c.ApprovedStories,
			UrgentStories:   c.UrgentStories,
			NewStoriesToday: c.NewStoriesToday,
		},
		InclusionMetrics: InclusionPercentages{
			MarginalizedPercentage: percentage(c.RefugeeUsers, c.TotalUsers),
			PWDPercentage:          percentage(c.PWDUsers, c.TotalUsers),
			LGBTQIPercentage:       percentage(c.LGBTQIUsers, c.TotalUsers),
		},
	}
}

func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func average(sum, n int64) int64 {
	if n <= 0 {
		return 0
	}
	return sum / n
}

// MetricsService records and lists dated InclusionMetrics rollups.
type MetricsService struct {
	aggregator *Aggregator
	repo       MetricsRepository
	logger     *slog.Logger
}

// NewMetricsService builds a MetricsService on top of an Aggregator.
func NewMetricsService(aggregator *Aggregator, repo MetricsRepository, logger *slog.Logger) *MetricsService {
	return &MetricsService{aggregator: aggregator, repo: repo, logger: logging.Component(logger, "analytics.metrics")}
}

// Snapshot rolls the current counters into today's InclusionMetrics row.
func (s *MetricsService) Snapshot(ctx context.Context) (InclusionMetrics, error) {
	c, day, err := s.aggregator.counts(ctx)
	if err != nil {
		return InclusionMetrics{}, err
	}
	m := InclusionMetrics{
		Date:              day,
		TotalUsers:        c.TotalUsers,
		MarginalizedUsers: c.AnyGroupUsers,
		RefugeeUsers:      c.RefugeeUsers,
		PWDUsers:          c.PWDUsers,
		LGBTQIUsers:       c.LGBTQIUsers,
		CreativeUsers:     c.CreativeUsers,
		AvgIncomeCents:    average(c.IncomeCents, c.IncomeEntries),
		AvgExpenseCents:   average(c.ExpenseCents, c.ExpenseEntries),
		FundingRequests:   c.FundingEntries,
		TotalStories:      c.TotalStories,
		ApprovedStories:   c.ApprovedStories,
		UrgentStories:     c.UrgentStories,
	}
	if err := s.repo.UpsertMetrics(ctx, m); err != nil {
		return InclusionMetrics{}, err
	}
	s.logger.InfoContext(ctx, "inclusion metrics recorded", slog.String("date", day.Format(dateLayout)), slog.Int64("total_users", m.TotalUsers))
	return m, nil
}

// List returns up to limit rollups, newest first.
func (s *MetricsService) List(ctx context.Context, limit int) ([]InclusionMetrics, error) {
	return s.repo.ListMetrics(ctx, limit)
}

// Run records a snapshot every interval until ctx is cancelled.
func (s *MetricsService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Snapshot(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled metrics snapshot failed", slog.Any("error", err))
			}
		}
	}
}
