package analytics

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/stories"
	"github.com/inclusion-hub/heva/internal/users"
)

// DashboardSource reads the whole record store and returns raw counters.
// Records whose creation time falls in [dayStart, dayEnd) count as "today".
type DashboardSource interface {
	DashboardCounts(ctx context.Context, dayStart, dayEnd time.Time) (DashboardCounts, error)
}

// ScanSource computes counters by listing every record through the
// repositories. It backs the in-memory development mode.
type ScanSource struct {
	users   users.Repository
	entries finance.Repository
	stories stories.Repository
}

// NewScanSource builds a DashboardSource over plain repositories.
func NewScanSource(userRepo users.Repository, entryRepo finance.Repository, storyRepo stories.Repository) *ScanSource {
	return &ScanSource{users: userRepo, entries: entryRepo, stories: storyRepo}
}

// DashboardCounts implements DashboardSource.
func (s *ScanSource) DashboardCounts(ctx context.Context, dayStart, dayEnd time.Time) (DashboardCounts, error) {
	var c DashboardCounts

	allUsers, err := s.users.List(ctx)
	if err != nil {
		return DashboardCounts{}, fmt.Errorf("list users: %w", err)
	}
	for _, u := range allUsers {
		c.TotalUsers++
		if len(u.MarginalizedGroups) > 0 {
			c.AnyGroupUsers++
		}
		if u.InGroup(users.GroupRefugee) {
			c.RefugeeUsers++
		}
		if u.Disability {
			c.PWDUsers++
		}
		if u.InGroup(users.GroupLGBTQI) {
			c.LGBTQIUsers++
		}
		if u.UserType == users.TypeCreative {
			c.CreativeUsers++
		}
		if within(u.DateJoined, dayStart, dayEnd) {
			c.NewUsersToday++
		}
	}

	entries, err := s.entries.List(ctx, finance.Filter{})
	if err != nil {
		return DashboardCounts{}, fmt.Errorf("list entries: %w", err)
	}
	for _, e := range entries {
		switch e.Kind {
		case finance.KindIncome:
			c.IncomeCents += e.AmountCents
			c.IncomeEntries++
		case finance.KindExpense:
			c.ExpenseCents += e.AmountCents
			c.ExpenseEntries++
		case finance.KindFunding:
			c.FundingEntries++
		}
	}

	allStories, err := s.stories.List(ctx, stories.Filter{})
	if err != nil {
		return DashboardCounts{}, fmt.Errorf("list stories: %w", err)
	}
	for _, st := range allStories {
		c.TotalStories++
		if st.Status == stories.StatusApproved {
			c.ApprovedStories++
		}
		if st.HasTag(stories.TagUrgency) {
			c.UrgentStories++
		}
		if within(st.SubmittedAt, dayStart, dayEnd) {
			c.NewStoriesToday++
		}
	}

	return c, nil
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// PostgresSource runs the dashboard counts as aggregate queries inside one
// read-only repeatable-read transaction, so cross-table numbers agree.
type PostgresSource struct {
	db *pgxpool.Pool
}

// NewPostgresSource builds a DashboardSource on PostgreSQL.
func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

// DashboardCounts implements DashboardSource.
func (s *PostgresSource) DashboardCounts(ctx context.Context, dayStart, dayEnd time.Time) (DashboardCounts, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return DashboardCounts{}, fmt.Errorf("begin dashboard tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var c DashboardCounts

	if err := scanInto(ctx, tx, userCountsQuery(dayStart, dayEnd), &c.TotalUsers, &c.AnyGroupUsers,
		&c.RefugeeUsers, &c.PWDUsers, &c.LGBTQIUsers, &c.CreativeUsers, &c.NewUsersToday); err != nil {
		return DashboardCounts{}, fmt.Errorf("count users: %w", err)
	}

	if err := scanInto(ctx, tx, entryTotalsQuery(), &c.IncomeCents, &c.ExpenseCents, &c.IncomeEntries,
		&c.ExpenseEntries, &c.FundingEntries); err != nil {
		return DashboardCounts{}, fmt.Errorf("sum entries: %w", err)
	}

	if err := scanInto(ctx, tx, storyCountsQuery(dayStart, dayEnd), &c.TotalStories, &c.ApprovedStories,
		&c.UrgentStories, &c.NewStoriesToday); err != nil {
		return DashboardCounts{}, fmt.Errorf("count stories: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return DashboardCounts{}, fmt.Errorf("commit dashboard tx: %w", err)
	}
	return c, nil
}

// userCountsQuery scans into TotalUsers, AnyGroupUsers, RefugeeUsers,
// PWDUsers, LGBTQIUsers, CreativeUsers, NewUsersToday in that order.
func userCountsQuery(dayStart, dayEnd time.Time) sq.SelectBuilder {
	return psql.Select().
		Column("COUNT(*)").
		Column("COUNT(*) FILTER (WHERE cardinality(marginalized_groups) > 0)").
		Column("COUNT(*) FILTER (WHERE ? = ANY(marginalized_groups))", users.GroupRefugee).
		Column("COUNT(*) FILTER (WHERE disability)").
		Column("COUNT(*) FILTER (WHERE ? = ANY(marginalized_groups))", users.GroupLGBTQI).
		Column("COUNT(*) FILTER (WHERE user_type = ?)", users.TypeCreative).
		Column("COUNT(*) FILTER (WHERE date_joined >= ? AND date_joined < ?)", dayStart.UTC(), dayEnd.UTC()).
		From("users")
}

// entryTotalsQuery scans into IncomeCents, ExpenseCents, IncomeEntries,
// ExpenseEntries, FundingEntries.
func entryTotalsQuery() sq.SelectBuilder {
	return psql.Select().
		Column("COALESCE(SUM(amount_cents) FILTER (WHERE kind = ?), 0)::bigint", finance.KindIncome).
		Column("COALESCE(SUM(amount_cents) FILTER (WHERE kind = ?), 0)::bigint", finance.KindExpense).
		Column("COUNT(*) FILTER (WHERE kind = ?)", finance.KindIncome).
		Column("COUNT(*) FILTER (WHERE kind = ?)", finance.KindExpense).
		Column("COUNT(*) FILTER (WHERE kind = ?)", finance.KindFunding).
		From("financial_entries")
}

// storyCountsQuery scans into TotalStories, ApprovedStories, UrgentStories,
// NewStoriesToday.
func storyCountsQuery(dayStart, dayEnd time.Time) sq.SelectBuilder {
	return psql.Select().
		Column("COUNT(*)").
		Column("COUNT(*) FILTER (WHERE status = ?)", stories.StatusApproved).
		Column("COUNT(*) FILTER (WHERE ? = ANY(tags))", stories.TagUrgency).
		Column("COUNT(*) FILTER (WHERE date_submitted >= ? AND date_submitted < ?)", dayStart.UTC(), dayEnd.UTC()).
		From("stories")
}

func scanInto(ctx context.Context, tx pgx.Tx, query sq.SelectBuilder, dest ...any) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	return tx.QueryRow(ctx, sql, args...).Scan(dest...)
}
