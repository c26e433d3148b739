package photos

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

const photoColumns = `id, session_id, photo_url, thumbnail_url, title, description, is_featured, width, height, file_size, file_type, storage_key, uploaded_at`

// ListBySession returns the photos of one session.
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE session_id = $1 ORDER BY uploaded_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// FindWithOwner fetches a photo together with its effective owner, resolved
// through the parent session's creator. The photo row itself never decides
// ownership.
func (r *Repository) FindWithOwner(ctx context.Context, id int64) (Photo, int64, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT p.id, p.session_id, p.photo_url, p.thumbnail_url, p.title, p.description,
		        p.is_featured, p.width, p.height, p.file_size, p.file_type, p.storage_key,
		        p.uploaded_at, s.created_by
		 FROM photos p
		 JOIN photo_sessions s ON s.id = p.session_id
		 WHERE p.id = $1`, id)
	var photo Photo
	var ownerID int64
	if err := scanPhotoInto(row, &photo, &ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Photo{}, 0, fmt.Errorf("%w: photo %d", httpx.ErrNotFound, id)
		}
		return Photo{}, 0, err
	}
	return photo, ownerID, nil
}

// Create inserts a new photo record for a session.
func (r *Repository) Create(ctx context.Context, photo Photo) (Photo, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO photos (session_id, photo_url, thumbnail_url, title, description, is_featured, width, height, file_size, file_type, storage_key, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		 RETURNING `+photoColumns,
		photo.SessionID, photo.PhotoURL, photo.ThumbnailURL, photo.Title, photo.Description,
		photo.IsFeatured, photo.Width, photo.Height, photo.FileSize, photo.FileType, photo.StorageKey)
	var created Photo
	if err := scanPhotoInto(row, &created, nil); err != nil {
		return Photo{}, err
	}
	return created, nil
}

// UpdateMetadata replaces the mutable metadata of a photo.
func (r *Repository) UpdateMetadata(ctx context.Context, id int64, update PhotoUpdate) (Photo, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE photos
		 SET title = $2, description = $3, is_featured = $4
		 WHERE id = $1
		 RETURNING `+photoColumns,
		id, update.Title, update.Description, update.IsFeatured)
	var photo Photo
	if err := scanPhotoInto(row, &photo, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Photo{}, fmt.Errorf("%w: photo %d", httpx.ErrNotFound, id)
		}
		return Photo{}, err
	}
	return photo, nil
}

// Delete removes a photo record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: photo %d", httpx.ErrNotFound, id)
	}
	return nil
}

func collectPhotos(rows pgx.Rows) ([]Photo, error) {
	var photos []Photo
	for rows.Next() {
		var photo Photo
		if err := scanPhotoInto(rows, &photo, nil); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

func scanPhotoInto(row pgx.Row, photo *Photo, ownerID *int64) error {
	dest := []any{
		&photo.ID,
		&photo.SessionID,
		&photo.PhotoURL,
		&photo.ThumbnailURL,
		&photo.Title,
		&photo.Description,
		&photo.IsFeatured,
		&photo.Width,
		&photo.Height,
		&photo.FileSize,
		&photo.FileType,
		&photo.StorageKey,
		&photo.UploadedAt,
	}
	if ownerID != nil {
		dest = append(dest, ownerID)
	}
	return row.Scan(dest...)
}
