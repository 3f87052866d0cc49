// Package visibility implements the issue access decisions: per-permission
// grant resolution, per-issue visibility, watcher eligibility, and the bulk
// visibility predicate. Every function is a pure computation over the
// snapshot passed in; the host platform's own rules enter only through the
// HostPolicy supplied at construction.
package visibility

import (
	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
)

// HostPolicy is the host platform's side of the visibility contract. The
// core layers its role/tracker logic on top of these rules and never
// replaces them: PermissionGranted is a prerequisite that is always ANDed in,
// BaseVisible and BaseWatcherValid are independent sufficient conditions
// that are ORed in, and BaseCondition is the bulk counterpart of BaseVisible.
type HostPolicy interface {
	// PermissionGranted is the host's project-level permission check,
	// uninformed of tracker scoping.
	PermissionGranted(user *domain.User, perm domain.Permission, projectID int64) bool

	// BaseVisible is the host's own issue visibility rule (privacy, project
	// membership and the like).
	BaseVisible(issue *domain.Issue, user *domain.User) bool

	// BaseCondition is the bulk predicate equivalent of BaseVisible.
	BaseCondition(user *domain.User) sqlexpr.Expr

	// BaseWatcherValid is the host's default watcher-validity rule.
	BaseWatcherValid(issue *domain.Issue, candidate *domain.User) bool
}
