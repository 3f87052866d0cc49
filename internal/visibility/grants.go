package visibility

import "issuegate/internal/domain"

// Resolver decides whether a permission is granted to a user for a project
// and tracker. Two layers must both pass: the host's project-level permission
// check, and a role-level grant that either covers all trackers or allowlists
// the specific tracker id.
type Resolver struct {
	host HostPolicy
}

// NewResolver creates a Resolver on top of the host permission system.
func NewResolver(host HostPolicy) *Resolver {
	return &Resolver{host: host}
}

// Granted reports whether the user holds perm for the given project and
// tracker. trackerID 0 means the issue has no tracker; only an all-trackers
// role grant can satisfy the check then. A user with zero roles in the
// project is always denied, even when the host-level check alone would pass.
func (r *Resolver) Granted(user *domain.User, projectID, trackerID int64, perm domain.Permission) bool {
	if !user.LoggedIn() {
		return false
	}
	if !r.host.PermissionGranted(user, perm, projectID) {
		return false
	}

	roles := user.RolesForProject(projectID)
	for i := range roles {
		if roles[i].PermitsAllTrackers(perm) {
			return true
		}
	}
	if trackerID == 0 {
		return false
	}
	for i := range roles {
		if roles[i].PermitsTracker(perm, trackerID) {
			return true
		}
	}
	return false
}

// GrantedForIssue is Granted keyed by an issue's project and tracker.
func (r *Resolver) GrantedForIssue(user *domain.User, issue *domain.Issue, perm domain.Permission) bool {
	if issue == nil {
		return false
	}
	return r.Granted(user, issue.ProjectID, issue.TrackerID, perm)
}
