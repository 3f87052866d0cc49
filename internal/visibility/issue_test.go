package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"issuegate/internal/domain"
)

func newEvaluator(host HostPolicy) *Evaluator {
	resolver := NewResolver(host)
	return NewEvaluator(resolver, NewWatcherRules(resolver, host), host)
}

func TestEvaluatorVisible(t *testing.T) {
	const (
		desc  = domain.PermViewIssueDescription
		watch = domain.PermViewWatchedIssues
	)

	t.Run("nil user sees nothing", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			baseVisible: func(*domain.Issue, *domain.User) bool { return true },
		})
		assert.False(t, e.Visible(testIssue(1, 9), nil))
	})

	t.Run("nil issue is not visible", func(t *testing.T) {
		e := newEvaluator(&fakeHost{})
		admin := testUser(1)
		admin.IsAdmin = true
		assert.False(t, e.Visible(nil, admin))
	})

	t.Run("admin sees everything", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			permission: func(*domain.User, domain.Permission, int64) bool { return false },
		})
		admin := testUser(1)
		admin.IsAdmin = true
		assert.True(t, e.Visible(testIssue(1, 9), admin))
	})

	t.Run("assignee sees the issue without any permission", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			permission: func(*domain.User, domain.Permission, int64) bool { return false },
		})
		u := testUser(5)
		issue := testIssue(1, 9)
		issue.AssignedTo = &domain.Principal{ID: 5, Type: domain.PrincipalUser}
		assert.True(t, e.Visible(issue, u))
	})

	t.Run("member of assignee group sees the issue", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			permission: func(*domain.User, domain.Permission, int64) bool { return false },
		})
		u := testUser(5)
		u.GroupIDs = []int64{30}
		issue := testIssue(1, 9)
		issue.AssignedTo = &domain.Principal{ID: 30, Type: domain.PrincipalGroup}
		assert.True(t, e.Visible(issue, u))
	})

	t.Run("description permission is a hard gate", func(t *testing.T) {
		// Base visible, watcher listed, watch permission held: none of it
		// helps without the description permission.
		e := newEvaluator(&fakeHost{
			baseVisible: func(*domain.Issue, *domain.User) bool { return true },
		})
		u := withMembership(testUser(5), 1, allTrackerRole(watch))
		issue := testIssue(1, 9)
		issue.Watchers = []domain.Principal{{ID: 5, Type: domain.PrincipalUser}}
		assert.False(t, e.Visible(issue, u))
	})

	t.Run("description permission plus base visibility", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			baseVisible: func(*domain.Issue, *domain.User) bool { return true },
		})
		u := withMembership(testUser(5), 1, allTrackerRole(desc))
		assert.True(t, e.Visible(testIssue(1, 9), u))
	})

	t.Run("watcher-ship substitutes for base visibility", func(t *testing.T) {
		e := newEvaluator(&fakeHost{})
		u := withMembership(testUser(5), 1, allTrackerRole(desc, watch))
		issue := testIssue(1, 9)

		// Not a watcher, not base visible.
		assert.False(t, e.Visible(issue, u))

		issue.Watchers = []domain.Principal{{ID: 5, Type: domain.PrincipalUser}}
		assert.True(t, e.Visible(issue, u))
	})

	t.Run("listed watcher without watch permission gains nothing", func(t *testing.T) {
		e := newEvaluator(&fakeHost{})
		u := withMembership(testUser(5), 1, allTrackerRole(desc))
		issue := testIssue(1, 9)
		issue.Watchers = []domain.Principal{{ID: 5, Type: domain.PrincipalUser}}
		assert.False(t, e.Visible(issue, u))
	})

	t.Run("tracker scope decides between two issues", func(t *testing.T) {
		e := newEvaluator(&fakeHost{
			baseVisible: func(*domain.Issue, *domain.User) bool { return true },
		})
		u := withMembership(testUser(5), 1, trackerRole([]int64{9}, desc))
		assert.True(t, e.Visible(testIssue(1, 9), u))
		assert.False(t, e.Visible(testIssue(1, 5), u))
	})

	t.Run("granting more scope never hides an issue", func(t *testing.T) {
		issue := testIssue(1, 9)
		issue.Watchers = []domain.Principal{{ID: 5, Type: domain.PrincipalUser}}
		host := &fakeHost{}

		narrow := withMembership(testUser(5), 1, trackerRole([]int64{9}, desc))
		wide := withMembership(testUser(5), 1, trackerRole([]int64{9}, desc), allTrackerRole(watch))

		e := newEvaluator(host)
		before := e.Visible(issue, narrow)
		after := e.Visible(issue, wide)
		assert.False(t, before)
		assert.True(t, after)
	})
}
