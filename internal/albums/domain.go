package albums

import (
	"fmt"
	"time"

	"github.com/shutterdesk/shutterdesk/internal/clients"
	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

// Share-path failures. An absent token and an expired token are the same
// error on purpose: the response must not confirm a token ever existed.
var (
	ErrShareLinkNotFound    = fmt.Errorf("%w: shared album link", httpx.ErrNotFound)
	ErrInvalidAlbumPassword = fmt.Errorf("%w: incorrect album password", httpx.ErrUnprocessable)
)

// Album groups photos for delivery to a client. CreatedBy is the effective
// owner. ShareToken/ShareTokenExpires/PasswordHash drive the unauthenticated
// shared access path and never appear in JSON responses.
type Album struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	ClientID          *int64     `json:"clientId,omitempty"`
	CreatedBy         int64      `json:"createdBy"`
	CoverPhotoID      *int64     `json:"coverPhotoId,omitempty"`
	ShareToken        *string    `json:"-"`
	ShareTokenExpires *time.Time `json:"-"`
	PasswordHash      *string    `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// AlbumInput carries the mutable fields of an album.
type AlbumInput struct {
	Title       string
	Description *string
	ClientID    *int64
}

// AlbumDetails is an album with its photo collection and client resolved.
// RequiresPassword marks a password-protected shared album whose photos are
// withheld until the password is verified.
type AlbumDetails struct {
	Album
	Photos           []photos.Photo  `json:"photos"`
	Client           *clients.Client `json:"client,omitempty"`
	RequiresPassword bool            `json:"requiresPassword,omitempty"`
}

// ShareLink is the result of generating a share token.
type ShareLink struct {
	URL       string    `json:"shareUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
