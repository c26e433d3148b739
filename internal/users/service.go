package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, input NewUser, passwordHash string) (User, error)
	DeactivateUser(ctx context.Context, id int64) error
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser provisions a new account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, input NewUser) (User, error) {
	if !rbac.ValidRole(input.Role) {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, input.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, input, string(hash))
}

// DeactivateUser soft-deletes an account. The record is kept; authentication
// treats it exactly like a nonexistent user from then on.
func (s *Service) DeactivateUser(ctx context.Context, id int64) error {
	return s.repo.DeactivateUser(ctx, id)
}
