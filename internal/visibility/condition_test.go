package visibility

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
)

const baseSQL = "issues.is_private = 0"

func watchedSQL(userID int64) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM watchers w WHERE w.watchable_type = 'Issue' AND w.watchable_id = issues.id AND w.user_id = %d)", userID)
}

func TestConditionBuilderBuild(t *testing.T) {
	const (
		watch = domain.PermViewWatchedIssues
		desc  = domain.PermViewIssueDescription
	)
	trackerIDs := []int64{5, 9}

	t.Run("anonymous keeps the base condition unchanged", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		assert.Equal(t, baseSQL, sqlexpr.Format(b.Build(nil, trackerIDs)))

		anon := &domain.User{Principal: domain.Principal{ID: 0, Type: domain.PrincipalUser}}
		assert.Equal(t, baseSQL, sqlexpr.Format(b.Build(anon, trackerIDs)))
	})

	t.Run("no memberships keeps the base condition", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		assert.Equal(t, baseSQL, sqlexpr.Format(b.Build(testUser(5), trackerIDs)))
	})

	t.Run("all-trackers role contributes a whole-project clause", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 3, allTrackerRole(watch))
		want := fmt.Sprintf("(%s) OR ((%s) AND (issues.project_id = 3))", baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("allowlist role restricts the clause to granted trackers", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 7, trackerRole([]int64{9}, watch))
		want := fmt.Sprintf("(%s) OR ((%s) AND ((issues.project_id = 7 AND issues.tracker_id IN (9))))", baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("allowlist is intersected with known trackers", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 7, trackerRole([]int64{9, 99}, watch))
		want := fmt.Sprintf("(%s) OR ((%s) AND ((issues.project_id = 7 AND issues.tracker_id IN (9))))", baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("empty effective allowlist reduces to the base condition", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 7, trackerRole([]int64{99}, watch))
		assert.Equal(t, baseSQL, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("membership without host watch permission is skipped", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{
			permission: func(_ *domain.User, _ domain.Permission, projectID int64) bool {
				return projectID != 3
			},
		})
		u := withMembership(testUser(5), 3, allTrackerRole(watch))
		u = withMembership(u, 7, allTrackerRole(watch))
		want := fmt.Sprintf("(%s) OR ((%s) AND (issues.project_id = 7))", baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("description-only roles contribute nothing", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 3, allTrackerRole(desc))
		assert.Equal(t, baseSQL, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("clauses from multiple memberships are ORed in order", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 3, allTrackerRole(watch))
		u = withMembership(u, 7, trackerRole([]int64{9}, watch))
		want := fmt.Sprintf(
			"(%s) OR ((%s) AND (issues.project_id = 3 OR (issues.project_id = 7 AND issues.tracker_id IN (9))))",
			baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("duplicate clauses collapse", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		// Two memberships cannot share a project, but a group-merged
		// snapshot can still yield identical clauses; simulate it directly.
		u := testUser(5)
		u.Memberships = []domain.Membership{
			{ID: 1, UserID: 5, ProjectID: 3, Roles: []domain.Role{allTrackerRole(watch)}},
			{ID: 2, UserID: 5, ProjectID: 3, Roles: []domain.Role{allTrackerRole(watch)}},
		}
		want := fmt.Sprintf("(%s) OR ((%s) AND (issues.project_id = 3))", baseSQL, watchedSQL(5))
		assert.Equal(t, want, sqlexpr.Format(b.Build(u, trackerIDs)))
	})

	t.Run("tree shape is stable under structural comparison", func(t *testing.T) {
		b := NewConditionBuilder(&fakeHost{})
		u := withMembership(testUser(5), 3, allTrackerRole(watch))
		assert.True(t, sqlexpr.Equal(b.Build(u, trackerIDs), b.Build(u, trackerIDs)))
	})
}
