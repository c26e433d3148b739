// Package rbac holds the role model: the immutable role-default permission
// table, effective-permission resolution and the resource ownership guard.
package rbac

// Roles known to the platform.
const (
	RoleAdmin        = "admin"
	RolePhotographer = "photographer"
	RoleEditor       = "editor"
	RoleAssistant    = "assistant"
	RoleClient       = "client"
)

// Permission names.
const (
	PermManageUsers       = "manage_users"
	PermManageSessions    = "manage_sessions"
	PermManagePhotos      = "manage_photos"
	PermPublishContent    = "publish_content"
	PermEditContent       = "edit_content"
	PermViewAnalytics     = "view_analytics"
	PermManageSettings    = "manage_settings"
	PermUploadPhotos      = "upload_photos"
	PermEditOwnSessions   = "edit_own_sessions"
	PermPublishOwnContent = "publish_own_content"
	PermViewOwnAnalytics  = "view_own_analytics"
	PermEditPhotos        = "edit_photos"
	PermEditSessions      = "edit_sessions"
	PermViewSessions      = "view_sessions"
	PermViewOwnPhotos     = "view_own_photos"
	PermDownloadOwnPhotos = "download_own_photos"
)

// roleDefaults maps every role to its fixed default permission set. It is
// initialized at process start and never mutated afterwards, so concurrent
// reads are safe without locking.
var roleDefaults = map[string][]string{
	RoleAdmin: {
		PermManageUsers,
		PermManageSessions,
		PermManagePhotos,
		PermPublishContent,
		PermEditContent,
		PermViewAnalytics,
		PermManageSettings,
	},
	RolePhotographer: {
		PermUploadPhotos,
		PermEditOwnSessions,
		PermPublishOwnContent,
		PermViewOwnAnalytics,
	},
	RoleEditor: {
		PermEditPhotos,
		PermEditSessions,
		PermPublishContent,
	},
	RoleAssistant: {
		PermUploadPhotos,
		PermViewSessions,
	},
	RoleClient: {
		PermViewOwnPhotos,
		PermDownloadOwnPhotos,
	},
}

// DefaultRolePermissions returns a copy of the default permission set for the
// role. Unknown roles get an empty set.
func DefaultRolePermissions(role string) []string {
	defaults := roleDefaults[role]
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// ValidRole reports whether the role is one of the fixed enumeration.
func ValidRole(role string) bool {
	_, ok := roleDefaults[role]
	return ok
}

// Roles lists the known roles.
func Roles() []string {
	return []string{RoleAdmin, RolePhotographer, RoleEditor, RoleAssistant, RoleClient}
}
