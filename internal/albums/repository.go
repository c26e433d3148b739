package albums

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shutterdesk/shutterdesk/internal/photos"
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

const albumColumns = `id, title, description, client_id, created_by, cover_photo_id, share_token, share_token_expires, password_hash, created_at, updated_at`

// ListAll returns every album, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Album, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

// ListByCreator returns albums owned by the given user.
func (r *Repository) ListByCreator(ctx context.Context, userID int64) ([]Album, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+albumColumns+` FROM albums WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

// FindByID fetches one album.
func (r *Repository) FindByID(ctx context.Context, id int64) (Album, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = $1`, id)
	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Album{}, fmt.Errorf("%w: album %d", httpx.ErrNotFound, id)
		}
		return Album{}, err
	}
	return album, nil
}

// FindByShareToken resolves an album by its share token. The expiry filter is
// part of the query, so an expired token behaves exactly like one that never
// existed.
func (r *Repository) FindByShareToken(ctx context.Context, token string, now time.Time) (Album, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE share_token = $1 AND share_token_expires > $2`,
		token, now)
	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Album{}, ErrShareLinkNotFound
		}
		return Album{}, err
	}
	return album, nil
}

// Create inserts a new album owned by createdBy.
func (r *Repository) Create(ctx context.Context, createdBy int64, input AlbumInput) (Album, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO albums (title, description, client_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING `+albumColumns,
		input.Title, input.Description, input.ClientID, createdBy)
	return scanAlbum(row)
}

// Update replaces the mutable fields of an album.
func (r *Repository) Update(ctx context.Context, id int64, input AlbumInput) (Album, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE albums SET title = $2, description = $3, client_id = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+albumColumns,
		id, input.Title, input.Description, input.ClientID)
	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Album{}, fmt.Errorf("%w: album %d", httpx.ErrNotFound, id)
		}
		return Album{}, err
	}
	return album, nil
}

// Delete removes an album and its photo associations.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: album %d", httpx.ErrNotFound, id)
	}
	return nil
}

// AddPhotos associates photos with an album, ignoring duplicates.
func (r *Repository) AddPhotos(ctx context.Context, albumID int64, photoIDs []int64) error {
	for _, photoID := range photoIDs {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO album_photos (album_id, photo_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			albumID, photoID); err != nil {
			return err
		}
	}
	return nil
}

// RemovePhotos drops photo associations from an album.
func (r *Repository) RemovePhotos(ctx context.Context, albumID int64, photoIDs []int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM album_photos WHERE album_id = $1 AND photo_id = ANY($2)`,
		albumID, photoIDs)
	return err
}

// CountPhotos reports how many of the given photo ids exist.
func (r *Repository) CountPhotos(ctx context.Context, photoIDs []int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM photos WHERE id = ANY($1)`, photoIDs).Scan(&count)
	return count, err
}

// ListPhotos returns the photos attached to an album.
func (r *Repository) ListPhotos(ctx context.Context, albumID int64) ([]photos.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.session_id, p.photo_url, p.thumbnail_url, p.title, p.description,
		        p.is_featured, p.width, p.height, p.file_size, p.file_type, p.storage_key, p.uploaded_at
		 FROM photos p
		 JOIN album_photos ap ON ap.photo_id = p.id
		 WHERE ap.album_id = $1
		 ORDER BY p.uploaded_at`, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []photos.Photo
	for rows.Next() {
		var p photos.Photo
		if err := rows.Scan(&p.ID, &p.SessionID, &p.PhotoURL, &p.ThumbnailURL, &p.Title, &p.Description,
			&p.IsFeatured, &p.Width, &p.Height, &p.FileSize, &p.FileType, &p.StorageKey, &p.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetCoverPhoto updates the album's cover photo reference.
func (r *Repository) SetCoverPhoto(ctx context.Context, albumID int64, photoID *int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE albums SET cover_photo_id = $2, updated_at = now() WHERE id = $1`, albumID, photoID)
	return err
}

// UpdateShareToken overwrites the album's share token and expiry. The
// previous token becomes unusable immediately.
func (r *Repository) UpdateShareToken(ctx context.Context, albumID int64, token string, expiry time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE albums SET share_token = $2, share_token_expires = $3, updated_at = now() WHERE id = $1`,
		albumID, token, expiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: album %d", httpx.ErrNotFound, albumID)
	}
	return nil
}

// UpdatePasswordHash sets or clears the album's password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, albumID int64, hash *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE albums SET password_hash = $2, updated_at = now() WHERE id = $1`,
		albumID, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: album %d", httpx.ErrNotFound, albumID)
	}
	return nil
}

func collectAlbums(rows pgx.Rows) ([]Album, error) {
	var albums []Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return albums, nil
}

func scanAlbum(row pgx.Row) (Album, error) {
	var a Album
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.ClientID,
		&a.CreatedBy,
		&a.CoverPhotoID,
		&a.ShareToken,
		&a.ShareTokenExpires,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
