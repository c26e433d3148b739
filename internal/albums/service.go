package albums

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/clients"
	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

// RepositoryPort defines data access methods for albums.
type RepositoryPort interface {
	ListAll(ctx context.Context) ([]Album, error)
	ListByCreator(ctx context.Context, userID int64) ([]Album, error)
	FindByID(ctx context.Context, id int64) (Album, error)
	FindByShareToken(ctx context.Context, token string, now time.Time) (Album, error)
	Create(ctx context.Context, createdBy int64, input AlbumInput) (Album, error)
	Update(ctx context.Context, id int64, input AlbumInput) (Album, error)
	Delete(ctx context.Context, id int64) error
	AddPhotos(ctx context.Context, albumID int64, photoIDs []int64) error
	RemovePhotos(ctx context.Context, albumID int64, photoIDs []int64) error
	CountPhotos(ctx context.Context, photoIDs []int64) (int, error)
	ListPhotos(ctx context.Context, albumID int64) ([]photos.Photo, error)
	SetCoverPhoto(ctx context.Context, albumID int64, photoID *int64) error
	UpdateShareToken(ctx context.Context, albumID int64, token string, expiry time.Time) error
	UpdatePasswordHash(ctx context.Context, albumID int64, hash *string) error
}

// ClientLookup resolves client records for album details and notifications.
type ClientLookup interface {
	FindByID(ctx context.Context, id int64) (clients.Client, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Notifier is the outbound notification boundary.
type Notifier interface {
	AlbumReady(ctx context.Context, email, albumTitle, shareURL string) error
}

// Service handles album business logic.
type Service struct {
	repo     RepositoryPort
	clients  ClientLookup
	notifier Notifier
	guard    *rbac.Guard
	logger   *slog.Logger

	appURL   string
	shareTTL time.Duration
	now      func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, clientRepo ClientLookup, notifier Notifier, guard *rbac.Guard, logger *slog.Logger, appURL string, shareTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		clients:  clientRepo,
		notifier: notifier,
		guard:    guard,
		logger:   logger,
		appURL:   appURL,
		shareTTL: shareTTL,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListAlbums returns all albums for elevated users, otherwise the caller's own.
func (s *Service) ListAlbums(ctx context.Context, p *auth.Principal) ([]Album, error) {
	if p.HasPermission(rbac.PermManagePhotos) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByCreator(ctx, p.UserID())
}

// CreateAlbum creates an album owned by the caller.
func (s *Service) CreateAlbum(ctx context.Context, p *auth.Principal, input AlbumInput) (AlbumDetails, error) {
	if input.ClientID != nil {
		exists, err := s.clients.Exists(ctx, *input.ClientID)
		if err != nil {
			return AlbumDetails{}, err
		}
		if !exists {
			return AlbumDetails{}, fmt.Errorf("%w: client %d not found", httpx.ErrValidation, *input.ClientID)
		}
	}
	album, err := s.repo.Create(ctx, p.UserID(), input)
	if err != nil {
		return AlbumDetails{}, err
	}
	return s.details(ctx, album)
}

// GetAlbum returns an album with its photos and client resolved.
func (s *Service) GetAlbum(ctx context.Context, id int64) (AlbumDetails, error) {
	album, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AlbumDetails{}, err
	}
	return s.details(ctx, album)
}

// UpdateAlbum mutates an album the caller owns or has elevated rights over.
func (s *Service) UpdateAlbum(ctx context.Context, p *auth.Principal, id int64, input AlbumInput) (AlbumDetails, error) {
	album, err := s.authorize(ctx, p, id, rbac.ActionEdit)
	if err != nil {
		return AlbumDetails{}, err
	}
	updated, err := s.repo.Update(ctx, album.ID, input)
	if err != nil {
		return AlbumDetails{}, err
	}
	return s.details(ctx, updated)
}

// DeleteAlbum removes an album.
func (s *Service) DeleteAlbum(ctx context.Context, p *auth.Principal, id int64) error {
	if _, err := s.authorize(ctx, p, id, rbac.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddPhotos attaches photos to an album and fills in a missing cover photo.
func (s *Service) AddPhotos(ctx context.Context, p *auth.Principal, albumID int64, photoIDs []int64) error {
	album, err := s.authorize(ctx, p, albumID, rbac.ActionEdit)
	if err != nil {
		return err
	}
	count, err := s.repo.CountPhotos(ctx, photoIDs)
	if err != nil {
		return err
	}
	if count != len(photoIDs) {
		return fmt.Errorf("%w: one or more photos not found", httpx.ErrValidation)
	}
	if err := s.repo.AddPhotos(ctx, albumID, photoIDs); err != nil {
		return err
	}
	if album.CoverPhotoID == nil && len(photoIDs) > 0 {
		return s.repo.SetCoverPhoto(ctx, albumID, &photoIDs[0])
	}
	return nil
}

// RemovePhotos detaches photos and repairs the cover photo if it was removed.
func (s *Service) RemovePhotos(ctx context.Context, p *auth.Principal, albumID int64, photoIDs []int64) error {
	album, err := s.authorize(ctx, p, albumID, rbac.ActionEdit)
	if err != nil {
		return err
	}
	if err := s.repo.RemovePhotos(ctx, albumID, photoIDs); err != nil {
		return err
	}
	if album.CoverPhotoID == nil {
		return nil
	}
	for _, id := range photoIDs {
		if id != *album.CoverPhotoID {
			continue
		}
		remaining, err := s.repo.ListPhotos(ctx, albumID)
		if err != nil {
			return err
		}
		var next *int64
		if len(remaining) > 0 {
			next = &remaining[0].ID
		}
		return s.repo.SetCoverPhoto(ctx, albumID, next)
	}
	return nil
}

// NotifyClient emails the album's client a share link, generating a token
// first if the album has none.
func (s *Service) NotifyClient(ctx context.Context, p *auth.Principal, albumID int64) error {
	album, err := s.authorize(ctx, p, albumID, rbac.ActionShare)
	if err != nil {
		return err
	}
	if album.ClientID == nil {
		return fmt.Errorf("%w: album has no client", httpx.ErrValidation)
	}
	client, err := s.clients.FindByID(ctx, *album.ClientID)
	if err != nil {
		return err
	}
	if client.Email == nil || *client.Email == "" {
		return fmt.Errorf("%w: client has no email address", httpx.ErrValidation)
	}

	if album.ShareToken == nil || album.ShareTokenExpires == nil || !album.ShareTokenExpires.After(s.now()) {
		link, err := s.GenerateShareToken(ctx, p, albumID)
		if err != nil {
			return err
		}
		return s.notifier.AlbumReady(ctx, *client.Email, album.Title, link.URL)
	}
	return s.notifier.AlbumReady(ctx, *client.Email, album.Title, s.shareURL(*album.ShareToken))
}

// details loads the photo collection and client in parallel.
func (s *Service) details(ctx context.Context, album Album) (AlbumDetails, error) {
	var (
		albumPhotos []photos.Photo
		client      *clients.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		albumPhotos, err = s.repo.ListPhotos(gctx, album.ID)
		return err
	})
	if album.ClientID != nil {
		clientID := *album.ClientID
		g.Go(func() error {
			c, err := s.clients.FindByID(gctx, clientID)
			if err != nil {
				return err
			}
			client = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AlbumDetails{}, err
	}
	if albumPhotos == nil {
		albumPhotos = []photos.Photo{}
	}
	return AlbumDetails{Album: album, Photos: albumPhotos, Client: client}, nil
}

func (s *Service) authorize(ctx context.Context, p *auth.Principal, albumID int64, action rbac.Action) (Album, error) {
	album, err := s.repo.FindByID(ctx, albumID)
	if err != nil {
		return Album{}, err
	}
	res := rbac.Resource{Kind: rbac.KindAlbum, ID: album.ID, OwnerID: album.CreatedBy}
	if err := s.guard.Authorize(p, res, action); err != nil {
		return Album{}, err
	}
	return album, nil
}

func (s *Service) shareURL(token string) string {
	return fmt.Sprintf("%s/shared-album/%s", s.appURL, token)
}
