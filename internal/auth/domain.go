package auth

import (
	"errors"
	"time"
)

// Authentication-stage failures. All of them surface externally as the same
// generic 401; the distinction exists for logs and metrics only.
var (
	ErrMissingCredential      = errors.New("auth: missing credential")
	ErrInvalidCredential      = errors.New("auth: invalid credential")
	ErrExpiredCredential      = errors.New("auth: expired credential")
	ErrUserNotFoundOrInactive = errors.New("auth: user not found or inactive")
	ErrInvalidCredentials     = errors.New("auth: invalid credentials")
	ErrPasswordMismatch       = errors.New("auth: current password mismatch")
)

// User represents a persistent user account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Username     string
	Role         string
	IsActive     bool
	PasswordHash string
	ProfilePhoto *string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated actor for one request. It is built by the
// authorization middleware, carried in the request context and never persisted.
type Principal struct {
	ID          int64
	Email       string
	Name        string
	Role        string
	Permissions []string
}

// UserID returns the principal's user identifier.
func (p *Principal) UserID() int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

// HasPermission reports whether the principal holds the named permission.
func (p *Principal) HasPermission(name string) bool {
	if p == nil {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == name {
			return true
		}
	}
	return false
}

// HasAny reports whether the principal holds at least one of the named permissions.
func (p *Principal) HasAny(names ...string) bool {
	for _, name := range names {
		if p.HasPermission(name) {
			return true
		}
	}
	return false
}
