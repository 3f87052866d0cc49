package domain

// Permission is a stable permission identifier.
type Permission string

// Permissions understood by the visibility core.
const (
	PermViewIssueDescription Permission = "view_issue_description"
	PermViewWatchedIssues    Permission = "view_watched_issues"
)

// KnownPermissions lists every permission a role may carry, in display order.
var KnownPermissions = []Permission{
	PermViewIssueDescription,
	PermViewWatchedIssues,
}

// ValidPermission reports whether p is a known permission name.
func ValidPermission(p Permission) bool {
	for _, k := range KnownPermissions {
		if k == p {
			return true
		}
	}
	return false
}

// TrackerScope describes how far a granted permission reaches within a
// project. AllTrackers and the allowlist are independent: when AllTrackers is
// set the tracker-id list is irrelevant. A scope with AllTrackers unset and an
// empty allowlist grants the permission for no tracker at all.
type TrackerScope struct {
	AllTrackers bool
	TrackerIDs  []int64
}

// Role holds, per permission, whether the permission is granted and at which
// tracker scope. Presence of a permission key means the role holds the
// permission at the project level; the scope narrows it per tracker.
type Role struct {
	ID          int64
	Name        string
	Permissions map[Permission]TrackerScope
}

// HasPermission reports whether the role holds the permission at the project
// level, regardless of tracker scope.
func (r *Role) HasPermission(perm Permission) bool {
	if r == nil {
		return false
	}
	_, ok := r.Permissions[perm]
	return ok
}

// PermitsAllTrackers reports whether the role grants perm for every tracker.
func (r *Role) PermitsAllTrackers(perm Permission) bool {
	if r == nil {
		return false
	}
	scope, ok := r.Permissions[perm]
	return ok && scope.AllTrackers
}

// PermitsTracker reports whether the role grants perm for the given tracker
// via its allowlist. The all-trackers flag is checked separately.
func (r *Role) PermitsTracker(perm Permission, trackerID int64) bool {
	if r == nil {
		return false
	}
	scope, ok := r.Permissions[perm]
	if !ok {
		return false
	}
	for _, id := range scope.TrackerIDs {
		if id == trackerID {
			return true
		}
	}
	return false
}

// Membership associates a user with a project and the roles held there.
type Membership struct {
	ID        int64
	UserID    int64
	ProjectID int64
	Roles     []Role
}

// CreateRoleRequest holds parameters for creating a role.
type CreateRoleRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateRoleRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("role name is required")
	}
	return nil
}

// SetRolePermissionRequest configures one permission's tracker scope on a role.
type SetRolePermissionRequest struct {
	RoleID      int64
	Permission  Permission
	Granted     bool
	AllTrackers bool
	TrackerIDs  []int64
}

// Validate checks that the request is well-formed.
func (r *SetRolePermissionRequest) Validate() error {
	if r.RoleID == 0 {
		return ErrValidation("role_id is required")
	}
	if !ValidPermission(r.Permission) {
		return ErrValidation("unknown permission %q", r.Permission)
	}
	return nil
}
