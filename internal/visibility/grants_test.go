package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"issuegate/internal/domain"
)

func TestResolverGranted(t *testing.T) {
	const desc = domain.PermViewIssueDescription

	t.Run("anonymous is denied", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		assert.False(t, r.Granted(nil, 1, 1, desc))

		notLoggedIn := &domain.User{Principal: domain.Principal{ID: 0, Type: domain.PrincipalUser}}
		assert.False(t, r.Granted(notLoggedIn, 1, 1, desc))
	})

	t.Run("host denial blocks role grants", func(t *testing.T) {
		r := NewResolver(&fakeHost{
			permission: func(*domain.User, domain.Permission, int64) bool { return false },
		})
		u := withMembership(testUser(5), 1, allTrackerRole(desc))
		assert.False(t, r.Granted(u, 1, 1, desc))
	})

	t.Run("all-trackers role grants every tracker", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		u := withMembership(testUser(5), 1, allTrackerRole(desc))
		assert.True(t, r.Granted(u, 1, 9, desc))
		assert.True(t, r.Granted(u, 1, 12, desc))
		// Trackerless issues pass only through the all-trackers flag.
		assert.True(t, r.Granted(u, 1, 0, desc))
	})

	t.Run("allowlist role grants only listed trackers", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		u := withMembership(testUser(5), 1, trackerRole([]int64{9}, desc))
		assert.True(t, r.Granted(u, 1, 9, desc))
		assert.False(t, r.Granted(u, 1, 5, desc))
		assert.False(t, r.Granted(u, 1, 0, desc))
	})

	t.Run("zero roles in project is a deny", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		u := testUser(5)
		assert.False(t, r.Granted(u, 1, 9, desc))

		// Roles in another project don't carry over.
		u = withMembership(testUser(6), 2, allTrackerRole(desc))
		assert.False(t, r.Granted(u, 1, 9, desc))
	})

	t.Run("any role may satisfy the grant", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		u := withMembership(testUser(5), 1,
			trackerRole([]int64{5}, desc),
			trackerRole([]int64{9}, desc),
		)
		assert.True(t, r.Granted(u, 1, 9, desc))
		assert.True(t, r.Granted(u, 1, 5, desc))
		assert.False(t, r.Granted(u, 1, 12, desc))
	})

	t.Run("permissions are independent", func(t *testing.T) {
		r := NewResolver(&fakeHost{})
		u := withMembership(testUser(5), 1, allTrackerRole(domain.PermViewWatchedIssues))
		assert.True(t, r.Granted(u, 1, 9, domain.PermViewWatchedIssues))
		assert.False(t, r.Granted(u, 1, 9, desc))
	})
}

func TestResolverGrantedForIssue(t *testing.T) {
	r := NewResolver(&fakeHost{})
	u := withMembership(testUser(5), 1, trackerRole([]int64{9}, domain.PermViewIssueDescription))

	assert.False(t, r.GrantedForIssue(u, nil, domain.PermViewIssueDescription))
	assert.True(t, r.GrantedForIssue(u, testIssue(1, 9), domain.PermViewIssueDescription))
	assert.False(t, r.GrantedForIssue(u, testIssue(1, 5), domain.PermViewIssueDescription))
	assert.False(t, r.GrantedForIssue(u, testIssue(2, 9), domain.PermViewIssueDescription))
}
