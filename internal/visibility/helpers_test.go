package visibility

import (
	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
)

// fakeHost is a configurable HostPolicy for exercising the core in
// isolation. Defaults: every permission granted at the host level, nothing
// base visible, no base watcher validity, base condition "issues.is_private
// = 0".
type fakeHost struct {
	permission  func(*domain.User, domain.Permission, int64) bool
	baseVisible func(*domain.Issue, *domain.User) bool
	baseCond    sqlexpr.Expr
	watcherOK   func(*domain.Issue, *domain.User) bool
}

func (h *fakeHost) PermissionGranted(u *domain.User, p domain.Permission, projectID int64) bool {
	if h.permission != nil {
		return h.permission(u, p, projectID)
	}
	return true
}

func (h *fakeHost) BaseVisible(i *domain.Issue, u *domain.User) bool {
	if h.baseVisible != nil {
		return h.baseVisible(i, u)
	}
	return false
}

func (h *fakeHost) BaseCondition(u *domain.User) sqlexpr.Expr {
	if h.baseCond != nil {
		return h.baseCond
	}
	return &sqlexpr.RawExpr{SQL: "issues.is_private = 0"}
}

func (h *fakeHost) BaseWatcherValid(i *domain.Issue, c *domain.User) bool {
	if h.watcherOK != nil {
		return h.watcherOK(i, c)
	}
	return false
}

var roleSeq int64 = 100

func allTrackerRole(perms ...domain.Permission) domain.Role {
	roleSeq++
	r := domain.Role{ID: roleSeq, Permissions: map[domain.Permission]domain.TrackerScope{}}
	for _, p := range perms {
		r.Permissions[p] = domain.TrackerScope{AllTrackers: true}
	}
	return r
}

func trackerRole(trackerIDs []int64, perms ...domain.Permission) domain.Role {
	roleSeq++
	r := domain.Role{ID: roleSeq, Permissions: map[domain.Permission]domain.TrackerScope{}}
	for _, p := range perms {
		r.Permissions[p] = domain.TrackerScope{TrackerIDs: trackerIDs}
	}
	return r
}

func testUser(id int64) *domain.User {
	return &domain.User{Principal: domain.Principal{
		ID:     id,
		Type:   domain.PrincipalUser,
		Active: true,
	}}
}

func withMembership(u *domain.User, projectID int64, roles ...domain.Role) *domain.User {
	u.Memberships = append(u.Memberships, domain.Membership{
		ID:        int64(len(u.Memberships) + 1),
		UserID:    u.ID,
		ProjectID: projectID,
		Roles:     roles,
	})
	return u
}

func testIssue(projectID, trackerID int64) *domain.Issue {
	return &domain.Issue{ID: 1, ProjectID: projectID, TrackerID: trackerID, Subject: "test"}
}
