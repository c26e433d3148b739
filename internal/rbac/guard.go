package rbac

import (
	"fmt"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

// Kind identifies a class of owned resource.
type Kind string

// Resource kinds subject to ownership checks.
const (
	KindSession Kind = "session"
	KindPhoto   Kind = "photo"
	KindAlbum   Kind = "album"
)

// Action is the operation attempted against a resource.
type Action string

// Actions checked by the guard.
const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionShare  Action = "share"
)

// Resource describes the single resource instance an operation targets.
// OwnerID must already be resolved; for resources without an owner column
// (a photo) the caller resolves ownership through the parent first.
type Resource struct {
	Kind    Kind
	ID      int64
	OwnerID int64
}

// Decision is the guard's tagged result: allow/deny plus the reason.
type Decision struct {
	Allowed bool
	Reason  string
}

// Principal is the minimal view of the authenticated actor the guard needs.
type Principal interface {
	UserID() int64
	HasPermission(name string) bool
}

// Guard decides whether a principal may act on a specific resource instance:
// the principal owns it, or holds the elevated permission for its kind.
type Guard struct {
	elevated map[Kind]string
}

// NewGuard constructs a Guard with the platform's elevated-permission mapping.
// Albums are photo collections, so manage_photos overrides album ownership.
func NewGuard() *Guard {
	return &Guard{
		elevated: map[Kind]string{
			KindSession: PermManageSessions,
			KindPhoto:   PermManagePhotos,
			KindAlbum:   PermManagePhotos,
		},
	}
}

// Can evaluates the ownership rule for one resource and action.
func (g *Guard) Can(p Principal, res Resource, action Action) Decision {
	if p == nil || p.UserID() == 0 {
		return Decision{Allowed: false, Reason: "no authenticated principal"}
	}
	if res.OwnerID != 0 && res.OwnerID == p.UserID() {
		return Decision{Allowed: true, Reason: "owner"}
	}
	if perm, ok := g.elevated[res.Kind]; ok && p.HasPermission(perm) {
		return Decision{Allowed: true, Reason: "elevated permission " + perm}
	}
	return Decision{Allowed: false, Reason: fmt.Sprintf("not owner of %s %d", res.Kind, res.ID)}
}

// Authorize is the error-returning form of Can, for handlers that forward
// domain errors to httpx.RespondError.
func (g *Guard) Authorize(p Principal, res Resource, action Action) error {
	if d := g.Can(p, res, action); !d.Allowed {
		return fmt.Errorf("%w: %s %s: %s", httpx.ErrForbidden, action, res.Kind, d.Reason)
	}
	return nil
}
