package albums

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

// GenerateShareToken mints a fresh share token for the album and stores it
// with an expiry. Any previously issued token stops working at that moment.
func (s *Service) GenerateShareToken(ctx context.Context, p *auth.Principal, albumID int64) (ShareLink, error) {
	album, err := s.authorize(ctx, p, albumID, rbac.ActionShare)
	if err != nil {
		return ShareLink{}, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ShareLink{}, fmt.Errorf("albums: generate share token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiry := s.now().Add(s.shareTTL)

	if err := s.repo.UpdateShareToken(ctx, album.ID, token, expiry); err != nil {
		return ShareLink{}, err
	}
	s.logger.Info("share token issued", "album_id", album.ID, "expires_at", expiry)
	return ShareLink{URL: s.shareURL(token), ExpiresAt: expiry}, nil
}

// ResolveByToken looks up an album by share token for unauthenticated
// viewing. When the album is password protected the photo collection is
// withheld and RequiresPassword is set instead.
func (s *Service) ResolveByToken(ctx context.Context, token string) (AlbumDetails, error) {
	album, err := s.repo.FindByShareToken(ctx, token, s.now())
	if err != nil {
		return AlbumDetails{}, err
	}
	if album.PasswordHash != nil {
		return AlbumDetails{
			Album:            album,
			Photos:           []photos.Photo{},
			RequiresPassword: true,
		}, nil
	}
	return s.details(ctx, album)
}

// VerifyPassword checks the supplied password against the shared album and,
// on success, returns the full album contents. The token is re-resolved so
// a link that expired between viewing and verifying is treated as missing.
// An album with no password accepts any input.
func (s *Service) VerifyPassword(ctx context.Context, token, password string) (AlbumDetails, error) {
	album, err := s.repo.FindByShareToken(ctx, token, s.now())
	if err != nil {
		return AlbumDetails{}, err
	}
	if album.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*album.PasswordHash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return AlbumDetails{}, ErrInvalidAlbumPassword
			}
			return AlbumDetails{}, fmt.Errorf("albums: verify password: %w", err)
		}
	}
	return s.details(ctx, album)
}

// SetPassword protects the album with a password, or clears protection when
// password is empty.
func (s *Service) SetPassword(ctx context.Context, p *auth.Principal, albumID int64, password string) error {
	album, err := s.authorize(ctx, p, albumID, rbac.ActionShare)
	if err != nil {
		return err
	}
	if password == "" {
		return s.repo.UpdatePasswordHash(ctx, album.ID, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("albums: hash password: %w", err)
	}
	hashed := string(hash)
	return s.repo.UpdatePasswordHash(ctx, album.ID, &hashed)
}
