package sessions

import (
	"context"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

// RepositoryPort defines data access methods for photo sessions.
type RepositoryPort interface {
	ListAll(ctx context.Context) ([]Session, error)
	ListByCreator(ctx context.Context, userID int64) ([]Session, error)
	FindByID(ctx context.Context, id int64) (Session, error)
	Create(ctx context.Context, createdBy int64, input SessionInput) (Session, error)
	Update(ctx context.Context, id int64, input SessionInput) (Session, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	Delete(ctx context.Context, id int64) error
}

// Service handles photo-session business logic. Every mutation loads the
// session first and runs the ownership guard before touching storage.
type Service struct {
	repo  RepositoryPort
	guard *rbac.Guard
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, guard *rbac.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// ListSessions returns all sessions for elevated users, otherwise the caller's own.
func (s *Service) ListSessions(ctx context.Context, p *auth.Principal) ([]Session, error) {
	if p.HasAny(rbac.PermManageSessions, rbac.PermEditSessions, rbac.PermViewSessions) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByCreator(ctx, p.UserID())
}

// GetSession returns one session.
func (s *Service) GetSession(ctx context.Context, id int64) (Session, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateSession creates a session owned by the caller.
func (s *Service) CreateSession(ctx context.Context, p *auth.Principal, input SessionInput) (Session, error) {
	return s.repo.Create(ctx, p.UserID(), input)
}

// UpdateSession mutates a session the caller owns or has elevated rights over.
func (s *Service) UpdateSession(ctx context.Context, p *auth.Principal, id int64, input SessionInput) (Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if err := s.guard.Authorize(p, resource(session), rbac.ActionEdit); err != nil {
		return Session{}, err
	}
	return s.repo.Update(ctx, id, input)
}

// SetPublished publishes or unpublishes a session.
func (s *Service) SetPublished(ctx context.Context, p *auth.Principal, id int64, published bool) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(p, resource(session), rbac.ActionEdit); err != nil {
		return err
	}
	return s.repo.SetPublished(ctx, id, published)
}

// DeleteSession removes a session the caller owns or has elevated rights over.
func (s *Service) DeleteSession(ctx context.Context, p *auth.Principal, id int64) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(p, resource(session), rbac.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func resource(s Session) rbac.Resource {
	return rbac.Resource{Kind: rbac.KindSession, ID: s.ID, OwnerID: s.CreatedBy}
}
