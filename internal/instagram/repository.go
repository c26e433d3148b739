package instagram

import (
	"context"
	"fmt"

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

// ListRecent returns the newest posts up to limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, media_url, permalink, caption, posted_at, created_at
		 FROM instagram_posts ORDER BY posted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.MediaURL, &p.Permalink, &p.Caption, &p.PostedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Create inserts a feed entry.
func (r *Repository) Create(ctx context.Context, input PostInput) (Post, error) {
	var p Post
	err := r.pool.QueryRow(ctx,
		`INSERT INTO instagram_posts (media_url, permalink, caption, posted_at, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, media_url, permalink, caption, posted_at, created_at`,
		input.MediaURL, input.Permalink, input.Caption, input.PostedAt).
		Scan(&p.ID, &p.MediaURL, &p.Permalink, &p.Caption, &p.PostedAt, &p.CreatedAt)
	return p, err
}

// Delete removes a feed entry.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM instagram_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: instagram post %d", httpx.ErrNotFound, id)
	}
	return nil
}
