package visibility

import (
	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
)

// Issues table columns the bulk predicate references.
const (
	issuesTable   = "issues"
	watchersTable = "watchers"
)

// ConditionBuilder constructs the bulk visibility predicate: a boolean
// expression over the issues table selecting every issue the user may see,
// mirroring the per-issue evaluator's watcher branch at the collection level.
type ConditionBuilder struct {
	host HostPolicy
}

// NewConditionBuilder creates a ConditionBuilder on top of the host's base
// bulk predicate.
func NewConditionBuilder(host HostPolicy) *ConditionBuilder {
	return &ConditionBuilder{host: host}
}

// Build returns the visibility predicate for the user. trackerIDs is the
// snapshot of all tracker ids (position order); role allowlists are
// intersected against it so the produced clauses are deterministic.
//
// Anonymous users, and users whose memberships contribute no watch-permission
// clause, get the host's base condition unchanged. Otherwise the result is
//
//	(base) OR ((EXISTS watcher row for user) AND (clause₁ OR clause₂ OR …))
//
// with one clause per membership: the whole project when a role grants the
// watch permission for all trackers, or the project restricted to the granted
// tracker set. Duplicate clauses collapse to one; clause order follows the
// membership order.
func (b *ConditionBuilder) Build(user *domain.User, trackerIDs []int64) sqlexpr.Expr {
	base := b.host.BaseCondition(user)

	if !user.LoggedIn() {
		return base
	}

	var clauses []sqlexpr.Expr
	for i := range user.Memberships {
		m := &user.Memberships[i]
		if !b.host.PermissionGranted(user, domain.PermViewWatchedIssues, m.ProjectID) {
			continue
		}
		if clause := membershipClause(m, trackerIDs); clause != nil {
			clauses = appendUnique(clauses, clause)
		}
	}

	if len(clauses) == 0 {
		return base
	}

	watched := watchedByUser(user.ID)
	return sqlexpr.Or(
		sqlexpr.Paren(base),
		sqlexpr.Paren(sqlexpr.And(
			sqlexpr.Paren(watched),
			sqlexpr.Paren(sqlexpr.Or(clauses...)),
		)),
	)
}

// membershipClause returns the project/tracker scope clause one membership
// contributes, or nil when its roles grant the watch permission for no
// tracker at all.
func membershipClause(m *domain.Membership, trackerIDs []int64) sqlexpr.Expr {
	projectEq := sqlexpr.Eq(sqlexpr.TableCol(issuesTable, "project_id"), sqlexpr.Number(m.ProjectID))

	for i := range m.Roles {
		if m.Roles[i].PermitsAllTrackers(domain.PermViewWatchedIssues) {
			return projectEq
		}
	}

	var allowed []int64
	for _, tid := range trackerIDs {
		for i := range m.Roles {
			if m.Roles[i].PermitsTracker(domain.PermViewWatchedIssues, tid) {
				allowed = append(allowed, tid)
				break
			}
		}
	}
	if len(allowed) == 0 {
		return nil
	}

	return sqlexpr.Paren(sqlexpr.And(
		projectEq,
		sqlexpr.In(sqlexpr.TableCol(issuesTable, "tracker_id"), allowed),
	))
}

// watchedByUser is the existential check for a watcher record of this user on
// the candidate issue row.
func watchedByUser(userID int64) sqlexpr.Expr {
	return &sqlexpr.ExistsExpr{
		Select: &sqlexpr.SelectExpr{
			Columns: []string{"1"},
			Table:   watchersTable,
			Alias:   "w",
			Where: sqlexpr.And(
				sqlexpr.Eq(sqlexpr.TableCol("w", "watchable_type"), sqlexpr.Str(domain.WatchableIssue)),
				sqlexpr.Eq(sqlexpr.TableCol("w", "watchable_id"), sqlexpr.TableCol(issuesTable, "id")),
				sqlexpr.Eq(sqlexpr.TableCol("w", "user_id"), sqlexpr.Number(userID)),
			),
		},
	}
}

func appendUnique(clauses []sqlexpr.Expr, clause sqlexpr.Expr) []sqlexpr.Expr {
	for _, c := range clauses {
		if sqlexpr.Equal(c, clause) {
			return clauses
		}
	}
	return append(clauses, clause)
}
