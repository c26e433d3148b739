package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `id, title, description, session_date, location, cover_photo_url, created_by, is_published, publish_date, created_at, updated_at`

// ListAll returns every session ordered by date, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM photo_sessions ORDER BY session_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListByCreator returns sessions owned by the given user.
func (r *Repository) ListByCreator(ctx context.Context, userID int64) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM photo_sessions WHERE created_by = $1 ORDER BY session_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// FindByID fetches one session.
func (r *Repository) FindByID(ctx context.Context, id int64) (Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM photo_sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, fmt.Errorf("%w: session %d", httpx.ErrNotFound, id)
		}
		return Session{}, err
	}
	return session, nil
}

// Create inserts a new session owned by createdBy.
func (r *Repository) Create(ctx context.Context, createdBy int64, input SessionInput) (Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO photo_sessions (title, description, session_date, location, created_by, is_published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, false, now(), now())
		 RETURNING `+sessionColumns,
		input.Title, input.Description, input.SessionDate, input.Location, createdBy)
	return scanSession(row)
}

// Update replaces the mutable fields of a session.
func (r *Repository) Update(ctx context.Context, id int64, input SessionInput) (Session, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE photo_sessions
		 SET title = $2, description = $3, session_date = $4, location = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, input.Title, input.Description, input.SessionDate, input.Location)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, fmt.Errorf("%w: session %d", httpx.ErrNotFound, id)
		}
		return Session{}, err
	}
	return session, nil
}

// SetPublished flips the publish flag and stamps the publish date.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE photo_sessions
		 SET is_published = $2, publish_date = CASE WHEN $2 THEN now() ELSE NULL END, updated_at = now()
		 WHERE id = $1`,
		id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %d", httpx.ErrNotFound, id)
	}
	return nil
}

// Delete removes a session.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM photo_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %d", httpx.ErrNotFound, id)
	}
	return nil
}

func collectSessions(rows pgx.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.SessionDate,
		&s.Location,
		&s.CoverPhotoURL,
		&s.CreatedBy,
		&s.IsPublished,
		&s.PublishDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}
