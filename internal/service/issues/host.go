// Package issues provides the issue-facing services: the default host policy
// the visibility core runs against, and the issue service exposing issue and
// watcher operations.
package issues

import (
	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
	"issuegate/internal/visibility"
)

// DefaultHostPolicy is the built-in host platform rule set. It keeps three
// rules deliberately simple: a permission is held at the project level when
// any membership role carries it (admins hold everything), an issue is base
// visible when it is public or the user authored it, is assigned to it, or
// belongs to its project (admins see every issue), and a watcher candidate is
// any active member of the issue's project.
//
// BaseCondition returns the exact row-wise counterpart of BaseVisible, so the
// per-issue and bulk paths agree on the base layer.
type DefaultHostPolicy struct{}

var _ visibility.HostPolicy = (*DefaultHostPolicy)(nil)

// NewDefaultHostPolicy creates the built-in host policy.
func NewDefaultHostPolicy() *DefaultHostPolicy {
	return &DefaultHostPolicy{}
}

// PermissionGranted reports whether the user holds perm in the project at
// all, before any tracker scoping.
func (h *DefaultHostPolicy) PermissionGranted(user *domain.User, perm domain.Permission, projectID int64) bool {
	if !user.LoggedIn() {
		return false
	}
	if user.IsAdmin {
		return true
	}
	roles := user.RolesForProject(projectID)
	for i := range roles {
		if roles[i].HasPermission(perm) {
			return true
		}
	}
	return false
}

// BaseVisible reports whether the issue is visible under the host's own
// rules, ignoring the watcher and description layers entirely.
func (h *DefaultHostPolicy) BaseVisible(issue *domain.Issue, user *domain.User) bool {
	if issue == nil {
		return false
	}
	if !issue.IsPrivate {
		return true
	}
	if !user.LoggedIn() {
		return false
	}
	if user.IsAdmin {
		return true
	}
	if issue.AuthorID == user.ID {
		return true
	}
	if a := issue.AssignedTo; a != nil {
		if a.ID == user.ID {
			return true
		}
		for _, gid := range user.GroupIDs {
			if gid == a.ID {
				return true
			}
		}
	}
	return user.MembershipFor(issue.ProjectID) != nil
}

// BaseCondition returns the bulk predicate matching exactly the rows
// BaseVisible accepts for this user.
func (h *DefaultHostPolicy) BaseCondition(user *domain.User) sqlexpr.Expr {
	public := sqlexpr.Eq(sqlexpr.TableCol("issues", "is_private"), sqlexpr.Number(0))
	if !user.LoggedIn() {
		return public
	}
	if user.IsAdmin {
		return &sqlexpr.RawExpr{SQL: "1 = 1"}
	}

	assigneeIDs := append([]int64{user.ID}, user.GroupIDs...)
	parts := []sqlexpr.Expr{
		public,
		sqlexpr.Eq(sqlexpr.TableCol("issues", "author_id"), sqlexpr.Number(user.ID)),
		sqlexpr.In(sqlexpr.TableCol("issues", "assigned_to_id"), assigneeIDs),
	}
	var projectIDs []int64
	for i := range user.Memberships {
		projectIDs = append(projectIDs, user.Memberships[i].ProjectID)
	}
	if len(projectIDs) > 0 {
		parts = append(parts, sqlexpr.In(sqlexpr.TableCol("issues", "project_id"), projectIDs))
	}
	return sqlexpr.Or(parts...)
}

// BaseWatcherValid accepts any active principal belonging to the issue's
// project. Group principals qualify through their own project membership.
func (h *DefaultHostPolicy) BaseWatcherValid(issue *domain.Issue, candidate *domain.User) bool {
	if issue == nil || candidate == nil || !candidate.Active {
		return false
	}
	return candidate.MembershipFor(issue.ProjectID) != nil
}
