package rbac

import (
	"reflect"
	"sort"
	"testing"
)

func TestDefaultRolePermissions(t *testing.T) {
	admin := DefaultRolePermissions(RoleAdmin)
	if len(admin) != 7 {
		t.Fatalf("admin defaults = %v", admin)
	}
	client := DefaultRolePermissions(RoleClient)
	want := []string{PermViewOwnPhotos, PermDownloadOwnPhotos}
	if !reflect.DeepEqual(client, want) {
		t.Fatalf("client defaults = %v, want %v", client, want)
	}
	if got := DefaultRolePermissions("superhero"); len(got) != 0 {
		t.Fatalf("unknown role defaults = %v, want empty", got)
	}
}

func TestDefaultRolePermissionsReturnsCopy(t *testing.T) {
	first := DefaultRolePermissions(RoleClient)
	first[0] = "tampered"
	second := DefaultRolePermissions(RoleClient)
	for _, p := range second {
		if p == "tampered" {
			t.Fatal("mutating the returned slice leaked into the defaults table")
		}
	}
}

func TestMergePermissionsGrantsExtendDefaults(t *testing.T) {
	// A client granted upload_photos keeps its defaults and gains the grant.
	merged := MergePermissions(DefaultRolePermissions(RoleClient), []string{PermUploadPhotos})
	want := []string{PermDownloadOwnPhotos, PermUploadPhotos, PermViewOwnPhotos}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
}

func TestMergePermissionsDeduplicates(t *testing.T) {
	merged := MergePermissions(
		[]string{PermUploadPhotos, PermViewSessions},
		[]string{PermUploadPhotos, PermUploadPhotos},
	)
	want := []string{PermUploadPhotos, PermViewSessions}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
}

func TestMergePermissionsOrderIndependent(t *testing.T) {
	a := MergePermissions([]string{"b", "a"}, []string{"c"})
	b := MergePermissions([]string{"c", "a"}, []string{"b"})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolution order leaked into result: %v vs %v", a, b)
	}
	if !sort.StringsAreSorted(a) {
		t.Fatalf("merged set not sorted: %v", a)
	}
}

func TestNormalizeGrantNames(t *testing.T) {
	got := normalizeGrantNames([]string{" Upload_Photos ", "upload_photos", "", "edit_photos"})
	want := []string{"edit_photos", "upload_photos"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %v, want %v", got, want)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range Roles() {
		if !ValidRole(role) {
			t.Errorf("role %q should be valid", role)
		}
	}
	if ValidRole("intern") {
		t.Error("unknown role accepted")
	}
}
