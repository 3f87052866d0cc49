package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
)

func hostUser(id int64) *domain.User {
	return &domain.User{Principal: domain.Principal{ID: id, Type: domain.PrincipalUser, Active: true}}
}

func TestDefaultHostPolicyPermissionGranted(t *testing.T) {
	h := NewDefaultHostPolicy()
	perm := domain.PermViewIssueDescription

	role := domain.Role{ID: 1, Permissions: map[domain.Permission]domain.TrackerScope{
		perm: {TrackerIDs: []int64{9}},
	}}

	t.Run("role presence grants at project level regardless of scope", func(t *testing.T) {
		u := hostUser(5)
		u.Memberships = []domain.Membership{{ID: 1, UserID: 5, ProjectID: 3, Roles: []domain.Role{role}}}
		assert.True(t, h.PermissionGranted(u, perm, 3))
		assert.False(t, h.PermissionGranted(u, perm, 4))
		assert.False(t, h.PermissionGranted(u, domain.PermViewWatchedIssues, 3))
	})

	t.Run("admin holds everything", func(t *testing.T) {
		u := hostUser(5)
		u.IsAdmin = true
		assert.True(t, h.PermissionGranted(u, perm, 3))
	})

	t.Run("anonymous holds nothing", func(t *testing.T) {
		assert.False(t, h.PermissionGranted(nil, perm, 3))
	})
}

func TestDefaultHostPolicyBaseVisible(t *testing.T) {
	h := NewDefaultHostPolicy()

	public := &domain.Issue{ID: 1, ProjectID: 3, Subject: "public"}
	private := &domain.Issue{ID: 2, ProjectID: 3, Subject: "private", IsPrivate: true, AuthorID: 8}

	t.Run("public issues visible to anyone", func(t *testing.T) {
		assert.True(t, h.BaseVisible(public, nil))
		assert.True(t, h.BaseVisible(public, hostUser(5)))
	})

	t.Run("private issues hidden from anonymous and strangers", func(t *testing.T) {
		assert.False(t, h.BaseVisible(private, nil))
		assert.False(t, h.BaseVisible(private, hostUser(5)))
	})

	t.Run("author sees own private issue", func(t *testing.T) {
		assert.True(t, h.BaseVisible(private, hostUser(8)))
	})

	t.Run("assignee and assignee group see private issue", func(t *testing.T) {
		assigned := &domain.Issue{ID: 3, ProjectID: 3, IsPrivate: true,
			AssignedTo: &domain.Principal{ID: 30, Type: domain.PrincipalGroup}}
		u := hostUser(5)
		assert.False(t, h.BaseVisible(assigned, u))
		u.GroupIDs = []int64{30}
		assert.True(t, h.BaseVisible(assigned, u))
	})

	t.Run("project member sees private issue", func(t *testing.T) {
		u := hostUser(5)
		u.Memberships = []domain.Membership{{ID: 1, UserID: 5, ProjectID: 3}}
		assert.True(t, h.BaseVisible(private, u))
	})

	t.Run("admin sees private issue without any membership", func(t *testing.T) {
		admin := hostUser(9)
		admin.IsAdmin = true
		assert.True(t, h.BaseVisible(private, admin))
	})
}

// BaseCondition must accept exactly the rows BaseVisible accepts, so the
// per-issue and bulk paths cannot drift apart on the base layer.
func TestDefaultHostPolicyBaseCondition(t *testing.T) {
	h := NewDefaultHostPolicy()

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, "issues.is_private = 0", sqlexpr.Format(h.BaseCondition(nil)))
	})

	t.Run("logged in with groups and memberships", func(t *testing.T) {
		u := hostUser(5)
		u.GroupIDs = []int64{30}
		u.Memberships = []domain.Membership{{ID: 1, UserID: 5, ProjectID: 3}}
		want := "issues.is_private = 0 OR issues.author_id = 5 OR issues.assigned_to_id IN (5,30) OR issues.project_id IN (3)"
		assert.Equal(t, want, sqlexpr.Format(h.BaseCondition(u)))
	})

	t.Run("logged in without memberships", func(t *testing.T) {
		u := hostUser(5)
		want := "issues.is_private = 0 OR issues.author_id = 5 OR issues.assigned_to_id IN (5)"
		assert.Equal(t, want, sqlexpr.Format(h.BaseCondition(u)))
	})

	t.Run("admin matches every row", func(t *testing.T) {
		admin := hostUser(9)
		admin.IsAdmin = true
		assert.Equal(t, "1 = 1", sqlexpr.Format(h.BaseCondition(admin)))
	})
}

func TestDefaultHostPolicyBaseWatcherValid(t *testing.T) {
	h := NewDefaultHostPolicy()
	issue := &domain.Issue{ID: 1, ProjectID: 3}

	member := hostUser(5)
	member.Memberships = []domain.Membership{{ID: 1, UserID: 5, ProjectID: 3}}
	assert.True(t, h.BaseWatcherValid(issue, member))

	t.Run("locked member rejected", func(t *testing.T) {
		locked := hostUser(6)
		locked.Active = false
		locked.Memberships = []domain.Membership{{ID: 2, UserID: 6, ProjectID: 3}}
		assert.False(t, h.BaseWatcherValid(issue, locked))
	})

	t.Run("non-member rejected", func(t *testing.T) {
		assert.False(t, h.BaseWatcherValid(issue, hostUser(7)))
	})

	t.Run("group member principal qualifies through its own membership", func(t *testing.T) {
		group := &domain.User{Principal: domain.Principal{ID: 30, Type: domain.PrincipalGroup, Active: true}}
		group.Memberships = []domain.Membership{{ID: 3, UserID: 30, ProjectID: 3}}
		assert.True(t, h.BaseWatcherValid(issue, group))
	})

	t.Run("nil inputs", func(t *testing.T) {
		assert.False(t, h.BaseWatcherValid(nil, member))
		assert.False(t, h.BaseWatcherValid(issue, nil))
	})
}
