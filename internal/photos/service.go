package photos

import (
	"context"
	"io"
	"log/slog"
	"path"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
	"github.com/shutterdesk/shutterdesk/internal/sessions"
)

// RepositoryPort defines data access methods for photos.
type RepositoryPort interface {
	ListBySession(ctx context.Context, sessionID int64) ([]Photo, error)
	FindWithOwner(ctx context.Context, id int64) (Photo, int64, error)
	Create(ctx context.Context, photo Photo) (Photo, error)
	UpdateMetadata(ctx context.Context, id int64, update PhotoUpdate) (Photo, error)
	Delete(ctx context.Context, id int64) error
}

// SessionLookup resolves the parent session of a photo.
type SessionLookup interface {
	FindByID(ctx context.Context, id int64) (sessions.Session, error)
}

// Service handles photo business logic. Ownership of a photo is always the
// owner of its parent session, resolved before any guard comparison.
type Service struct {
	repo     RepositoryPort
	sessions SessionLookup
	storage  Storage
	guard    *rbac.Guard
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, sessionRepo SessionLookup, storage Storage, guard *rbac.Guard, logger *slog.Logger) *Service {
	return &Service{repo: repo, sessions: sessionRepo, storage: storage, guard: guard, logger: logger}
}

// Upload stores the file and records the photo under the target session.
func (s *Service) Upload(ctx context.Context, p *auth.Principal, sessionID int64, filename, contentType string, size int64, body io.Reader) (Photo, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return Photo{}, err
	}
	res := rbac.Resource{Kind: rbac.KindSession, ID: session.ID, OwnerID: session.CreatedBy}
	if err := s.guard.Authorize(p, res, rbac.ActionEdit); err != nil {
		return Photo{}, err
	}

	key := NewStorageKey(sessionID, path.Ext(filename))
	url, err := s.storage.Put(ctx, key, contentType, body)
	if err != nil {
		return Photo{}, err
	}

	photo := Photo{
		SessionID:  sessionID,
		PhotoURL:   url,
		FileSize:   &size,
		FileType:   &contentType,
		StorageKey: key,
	}
	created, err := s.repo.Create(ctx, photo)
	if err != nil {
		// The record failed; avoid leaving an orphan object behind.
		if delErr := s.storage.Delete(ctx, key); delErr != nil && s.logger != nil {
			s.logger.Warn("delete orphan upload", slog.String("key", key), slog.Any("error", delErr))
		}
		return Photo{}, err
	}
	return created, nil
}

// ListBySession returns the photos of one session.
func (s *Service) ListBySession(ctx context.Context, sessionID int64) ([]Photo, error) {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListBySession(ctx, sessionID)
}

// GetPhoto returns one photo.
func (s *Service) GetPhoto(ctx context.Context, id int64) (Photo, error) {
	photo, _, err := s.repo.FindWithOwner(ctx, id)
	return photo, err
}

// UpdatePhoto mutates photo metadata after the ownership check.
func (s *Service) UpdatePhoto(ctx context.Context, p *auth.Principal, id int64, update PhotoUpdate) (Photo, error) {
	photo, ownerID, err := s.repo.FindWithOwner(ctx, id)
	if err != nil {
		return Photo{}, err
	}
	res := rbac.Resource{Kind: rbac.KindPhoto, ID: photo.ID, OwnerID: ownerID}
	if err := s.guard.Authorize(p, res, rbac.ActionEdit); err != nil {
		return Photo{}, err
	}
	return s.repo.UpdateMetadata(ctx, id, update)
}

// DeletePhoto removes the record and, best effort, the stored object.
func (s *Service) DeletePhoto(ctx context.Context, p *auth.Principal, id int64) error {
	photo, ownerID, err := s.repo.FindWithOwner(ctx, id)
	if err != nil {
		return err
	}
	res := rbac.Resource{Kind: rbac.KindPhoto, ID: photo.ID, OwnerID: ownerID}
	if err := s.guard.Authorize(p, res, rbac.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, photo.StorageKey); err != nil && s.logger != nil {
		s.logger.Warn("delete stored object", slog.String("key", photo.StorageKey), slog.Any("error", err))
	}
	return nil
}
