package rbac

import (
	"errors"
	"testing"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

type fakePrincipal struct {
	id    int64
	perms map[string]bool
}

func (p fakePrincipal) UserID() int64 { return p.id }

func (p fakePrincipal) HasPermission(name string) bool { return p.perms[name] }

func TestGuardOwnerAllowed(t *testing.T) {
	g := NewGuard()
	owner := fakePrincipal{id: 10}
	res := Resource{Kind: KindSession, ID: 7, OwnerID: 10}

	d := g.Can(owner, res, ActionEdit)
	if !d.Allowed {
		t.Fatalf("owner denied: %s", d.Reason)
	}
}

func TestGuardNonOwnerDenied(t *testing.T) {
	g := NewGuard()
	intruder := fakePrincipal{id: 11, perms: map[string]bool{PermUploadPhotos: true}}
	res := Resource{Kind: KindPhoto, ID: 3, OwnerID: 10}

	d := g.Can(intruder, res, ActionDelete)
	if d.Allowed {
		t.Fatal("non-owner without elevated permission was allowed")
	}

	err := g.Authorize(intruder, res, ActionDelete)
	if !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestGuardElevatedPermissionOverridesOwnership(t *testing.T) {
	g := NewGuard()
	admin := fakePrincipal{id: 99, perms: map[string]bool{
		PermManageSessions: true,
		PermManagePhotos:   true,
	}}

	cases := []struct {
		kind Kind
	}{
		{KindSession},
		{KindPhoto},
		{KindAlbum},
	}
	for _, tc := range cases {
		res := Resource{Kind: tc.kind, ID: 1, OwnerID: 10}
		if d := g.Can(admin, res, ActionEdit); !d.Allowed {
			t.Errorf("elevated principal denied on %s: %s", tc.kind, d.Reason)
		}
	}
}

func TestGuardElevatedPermissionIsKindSpecific(t *testing.T) {
	g := NewGuard()
	// manage_sessions does not extend to photos or albums.
	p := fakePrincipal{id: 5, perms: map[string]bool{PermManageSessions: true}}

	if d := g.Can(p, Resource{Kind: KindPhoto, ID: 1, OwnerID: 9}, ActionEdit); d.Allowed {
		t.Error("manage_sessions allowed photo mutation")
	}
	if d := g.Can(p, Resource{Kind: KindAlbum, ID: 1, OwnerID: 9}, ActionShare); d.Allowed {
		t.Error("manage_sessions allowed album share")
	}
}

func TestGuardNilPrincipalDenied(t *testing.T) {
	g := NewGuard()
	if d := g.Can(nil, Resource{Kind: KindSession, ID: 1, OwnerID: 1}, ActionView); d.Allowed {
		t.Fatal("nil principal allowed")
	}
	if d := g.Can(fakePrincipal{id: 0}, Resource{Kind: KindSession, ID: 1, OwnerID: 0}, ActionView); d.Allowed {
		t.Fatal("zero principal allowed against unowned resource")
	}
}
