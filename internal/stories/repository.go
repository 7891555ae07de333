package stories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inclusion-hub/heva/internal/users"
)

var (
	// ErrNotFound is returned when no story matches the lookup.
	ErrNotFound = errors.New("story not found")
	// ErrAlreadyModerated is returned when a story has left the pending state.
	ErrAlreadyModerated = errors.New("story already moderated")
)

// Repository persists stories.
type Repository interface {
	Create(ctx context.Context, story Story) error
	Get(ctx context.Context, id string) (Story, error)
	List(ctx context.Context, filter Filter) ([]Story, error)
	// UpdateModeration writes the moderation outcome only if the story is still pending.
	UpdateModeration(ctx context.Context, story Story) error
}

// PostgresRepository stores stories in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var storyColumns = []string{"id", "user_id", "title", "content", "audio_url", "tags", "status", "date_submitted", "date_approved", "approved_by"}

// Create inserts a story record.
func (r *PostgresRepository) Create(ctx context.Context, story Story) error {
	storyID, err := uuid.Parse(story.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(story.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO stories (id, user_id, title, content, audio_url, tags, status, date_submitted)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, storyID, userID, story.Title, story.Content, story.AudioURL, story.Tags, story.Status, story.SubmittedAt.UTC())
	return err
}

// Get fetches one story by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Story, error) {
	storyID, err := uuid.Parse(id)
	if err != nil {
		return Story{}, ErrNotFound
	}
	sql, args, err := psql.Select(storyColumns...).From("stories").Where("id = ?", storyID).ToSql()
	if err != nil {
		return Story{}, fmt.Errorf("build story query: %w", err)
	}
	return scanStory(r.db.QueryRow(ctx, sql, args...))
}

// listQuery builds the SELECT for filter. A user id that is not a UUID
// cannot own stories and reports users.ErrNotFound.
func listQuery(filter Filter) (string, []any, error) {
	query := psql.Select(storyColumns...).From("stories").OrderBy("date_submitted DESC")
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return "", nil, users.ErrNotFound
		}
		// Not sq.Eq: uuid.UUID is an array and would expand into an IN list.
		query = query.Where("user_id = ?", userID)
	}
	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": filter.Status})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build stories query: %w", err)
	}
	return sql, args, nil
}

// List returns stories matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Story, error) {
	sql, args, err := listQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var out []Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, story)
	}
	return out, rows.Err()
}

// UpdateModeration stores the moderation result for a pending story.
func (r *PostgresRepository) UpdateModeration(ctx context.Context, story Story) error {
	storyID, err := uuid.Parse(story.ID)
	if err != nil {
		return ErrNotFound
	}
	var approvedBy *uuid.UUID
	if story.ApprovedBy != "" {
		id, err := uuid.Parse(story.ApprovedBy)
		if err != nil {
			return err
		}
		approvedBy = &id
	}
	cmd, err := r.db.Exec(ctx, `UPDATE stories SET status = $1, date_approved = $2, approved_by = $3
        WHERE id = $4 AND status = $5`, story.Status, story.ApprovedAt, approvedBy, storyID, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyModerated
	}
	return nil
}

func scanStory(row pgx.Row) (Story, error) {
	var (
		s          Story
		id         uuid.UUID
		userID     uuid.UUID
		submitted  time.Time
		approvedAt *time.Time
		approvedBy *uuid.UUID
	)
	err := row.Scan(&id, &userID, &s.Title, &s.Content, &s.AudioURL, &s.Tags, &s.Status, &submitted, &approvedAt, &approvedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Story{}, ErrNotFound
		}
		return Story{}, err
	}
	s.ID = id.String()
	s.UserID = userID.String()
	s.SubmittedAt = submitted.UTC()
	if approvedAt != nil {
		t := approvedAt.UTC()
		s.ApprovedAt = &t
	}
	if approvedBy != nil {
		s.ApprovedBy = approvedBy.String()
	}
	return s, nil
}
