package finance

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inclusion-hub/heva/internal/users"
)

// Repository persists financial entries.
type Repository interface {
	Create(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

// PostgresRepository stores entries in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Create inserts an entry record.
func (r *PostgresRepository) Create(ctx context.Context, entry Entry) error {
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(entry.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO financial_entries (id, user_id, amount_cents, kind, description, source, entry_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, entryID, userID, entry.AmountCents, entry.Kind, entry.Description, entry.Source, entry.Date.UTC())
	return err
}

// listQuery builds the SELECT for filter. A user id that is not a UUID
// cannot own entries and reports users.ErrNotFound.
func listQuery(filter Filter) (string, []any, error) {
	query := psql.Select("id", "user_id", "amount_cents", "kind", "description", "source", "entry_date").
		From("financial_entries").
		OrderBy("entry_date DESC")
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return "", nil, users.ErrNotFound
		}
		// Not sq.Eq: uuid.UUID is an array and would expand into an IN list.
		query = query.Where("user_id = ?", userID)
	}
	if filter.Kind != "" {
		query = query.Where(sq.Eq{"kind": filter.Kind})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build entries query: %w", err)
	}
	return sql, args, nil
}

// List returns entries matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Entry, error) {
	sql, args, err := listQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			id     uuid.UUID
			userID uuid.UUID
			date   time.Time
		)
		if err := rows.Scan(&id, &userID, &e.AmountCents, &e.Kind, &e.Description, &e.Source, &date); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ID = id.String()
		e.UserID = userID.String()
		e.Date = date.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
