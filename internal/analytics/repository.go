package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inclusion-hub/heva/internal/scoring"
)

// ErrNotFound is returned when a user has no analytics row yet.
var ErrNotFound = errors.New("analytics not found")

// Repository persists one UserAnalytics row per user.
type Repository interface {
	Get(ctx context.Context, userID string) (UserAnalytics, error)
	Upsert(ctx context.Context, a UserAnalytics) error
}

// MetricsRepository persists one InclusionMetrics row per calendar date.
type MetricsRepository interface {
	UpsertMetrics(ctx context.Context, m InclusionMetrics) error
	ListMetrics(ctx context.Context, limit int) ([]InclusionMetrics, error)
}

// PostgresRepository implements Repository and MetricsRepository on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed analytics repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Get loads the snapshot for userID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (UserAnalytics, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserAnalytics{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT credit_score, risk_level, inclusion_score, last_updated
        FROM user_analytics WHERE user_id = $1`, id)
	var (
		a           UserAnalytics
		credit      string
		risk        string
		lastUpdated time.Time
	)
	if err := row.Scan(&credit, &risk, &a.InclusionScore, &lastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserAnalytics{}, ErrNotFound
		}
		return UserAnalytics{}, err
	}
	a.UserID = userID
	a.CreditScore = scoring.Tier(credit)
	a.RiskLevel = scoring.Tier(risk)
	a.LastUpdated = lastUpdated.UTC()
	return a, nil
}

// Upsert overwrites the snapshot for a.UserID in place.
func (r *PostgresRepository) Upsert(ctx context.Context, a UserAnalytics) error {
	id, err := uuid.Parse(a.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO user_analytics (user_id, credit_score, risk_level, inclusion_score, last_updated)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE
        SET credit_score = EXCLUDED.credit_score,
            risk_level = EXCLUDED.risk_level,
            inclusion_score = EXCLUDED.inclusion_score,
            last_updated = EXCLUDED.last_updated`,
		id, string(a.CreditScore), string(a.RiskLevel), a.InclusionScore, a.LastUpdated.UTC())
	return err
}

// UpsertMetrics stores the rollup for m.Date, replacing an earlier one from the same day.
func (r *PostgresRepository) UpsertMetrics(ctx context.Context, m InclusionMetrics) error {
	_, err := r.db.Exec(ctx, `INSERT INTO inclusion_metrics (date, total_users, marginalized_users, refugee_users,
            pwd_users, lgbtqi_users, creative_users, avg_income_cents, avg_expense_cents, funding_requests,
            total_stories, approved_stories, urgent_stories)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (date) DO UPDATE
        SET total_users = EXCLUDED.total_users,
            marginalized_users = EXCLUDED.marginalized_users,
            refugee_users = EXCLUDED.refugee_users,
            pwd_users = EXCLUDED.pwd_users,
            lgbtqi_users = EXCLUDED.lgbtqi_users,
            creative_users = EXCLUDED.creative_users,
            avg_income_cents = EXCLUDED.avg_income_cents,
            avg_expense_cents = EXCLUDED.avg_expense_cents,
            funding_requests = EXCLUDED.funding_requests,
            total_stories = EXCLUDED.total_stories,
            approved_stories = EXCLUDED.approved_stories,
            urgent_stories = EXCLUDED.urgent_stories`,
		m.Date, m.TotalUsers, m.MarginalizedUsers, m.RefugeeUsers, m.PWDUsers, m.LGBTQIUsers, m.CreativeUsers,
		m.AvgIncomeCents, m.AvgExpenseCents, m.FundingRequests, m.TotalStories, m.ApprovedStories, m.UrgentStories)
	return err
}

// ListMetrics returns the most recent rollups, newest first.
func (r *PostgresRepository) ListMetrics(ctx context.Context, limit int) ([]InclusionMetrics, error) {
	query := psql.Select("date", "total_users", "marginalized_users", "refugee_users", "pwd_users",
		"lgbtqi_users", "creative_users", "avg_income_cents", "avg_expense_cents", "funding_requests",
		"total_stories", "approved_stories", "urgent_stories").
		From("inclusion_metrics").
		OrderBy("date DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build metrics query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var out []InclusionMetrics
	for rows.Next() {
		var m InclusionMetrics
		if err := rows.Scan(&m.Date, &m.TotalUsers, &m.MarginalizedUsers, &m.RefugeeUsers, &m.PWDUsers,
			&m.LGBTQIUsers, &m.CreativeUsers, &m.AvgIncomeCents, &m.AvgExpenseCents, &m.FundingRequests,
			&m.TotalStories, &m.ApprovedStories, &m.UrgentStories); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
