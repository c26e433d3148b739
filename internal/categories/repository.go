package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const categoryColumns = `id, name, slug, description, cover_photo_url, created_at, updated_at`

// ListAll returns every category ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

// FindByID fetches one category.
func (r *Repository) FindByID(ctx context.Context, id int64) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
		}
		return Category{}, err
	}
	return category, nil
}

// FindBySlug fetches one category by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, fmt.Errorf("%w: category %s", httpx.ErrNotFound, slug)
		}
		return Category{}, err
	}
	return category, nil
}

// Create inserts a new category. A duplicate slug surfaces as ErrDuplicate.
func (r *Repository) Create(ctx context.Context, input CategoryInput) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug, description, cover_photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING `+categoryColumns,
		input.Name, input.Slug, input.Description, input.CoverPhotoURL)
	category, err := scanCategory(row)
	if err != nil {
		return Category{}, duplicateSlug(err, input.Slug)
	}
	return category, nil
}

// Update replaces the mutable fields of a category.
func (r *Repository) Update(ctx context.Context, id int64, input CategoryInput) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE categories
		 SET name = $2, slug = $3, description = $4, cover_photo_url = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+categoryColumns,
		id, input.Name, input.Slug, input.Description, input.CoverPhotoURL)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
		}
		return Category{}, duplicateSlug(err, input.Slug)
	}
	return category, nil
}

// Delete removes a category.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
	}
	return nil
}

func duplicateSlug(err error, slug string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: slug %s", httpx.ErrDuplicate, slug)
	}
	return err
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverPhotoURL, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectCategories(rows pgx.Rows) ([]Category, error) {
	var list []Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
