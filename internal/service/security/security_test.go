package security

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuegate/internal/db"
	"issuegate/internal/db/repository"
	"issuegate/internal/domain"
)

type svcEnv struct {
	ctx        context.Context
	principals *PrincipalService
	roles      *RoleService
	projects   *ProjectService
	audit      *AuditService
}

func newSvcEnv(t *testing.T) *svcEnv {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)

	principalRepo := repository.NewPrincipalRepo(writeDB)
	projectRepo := repository.NewProjectRepo(writeDB)
	roleRepo := repository.NewRoleRepo(writeDB)
	trackerRepo := repository.NewTrackerRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	return &svcEnv{
		ctx:        context.Background(),
		principals: NewPrincipalService(principalRepo, auditRepo),
		roles:      NewRoleService(roleRepo, trackerRepo, auditRepo),
		projects:   NewProjectService(projectRepo, trackerRepo, roleRepo, auditRepo),
		audit:      NewAuditService(auditRepo),
	}
}

func TestPrincipalServiceGroups(t *testing.T) {
	env := newSvcEnv(t)

	user, err := env.principals.Create(env.ctx, domain.CreatePrincipalRequest{Login: "alice", Name: "Alice"})
	require.NoError(t, err)
	group, err := env.principals.Create(env.ctx, domain.CreatePrincipalRequest{Name: "Team", Type: domain.PrincipalGroup})
	require.NoError(t, err)

	t.Run("add member", func(t *testing.T) {
		require.NoError(t, env.principals.AddGroupMember(env.ctx, group.ID, user.ID))
		members, err := env.principals.GroupMembers(env.ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Alice", members[0].Name)
	})

	t.Run("target must be a group", func(t *testing.T) {
		err := env.principals.AddGroupMember(env.ctx, user.ID, group.ID)
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("member must be a user", func(t *testing.T) {
		other, err := env.principals.Create(env.ctx, domain.CreatePrincipalRequest{Name: "Other", Type: domain.PrincipalGroup})
		require.NoError(t, err)
		err = env.principals.AddGroupMember(env.ctx, group.ID, other.ID)
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("mutations are audited", func(t *testing.T) {
		entries, err := env.audit.List(env.ctx, domain.AuditFilter{Action: "ADD_GROUP_MEMBER"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Team", entries[0].PrincipalName)
		assert.Equal(t, "Alice", entries[0].Detail)
	})
}

func TestRoleServiceSetPermission(t *testing.T) {
	env := newSvcEnv(t)

	role, err := env.roles.Create(env.ctx, domain.CreateRoleRequest{Name: "Viewer"})
	require.NoError(t, err)
	bug, err := env.projects.CreateTracker(env.ctx, "Bug", 1)
	require.NoError(t, err)

	t.Run("unknown permission rejected", func(t *testing.T) {
		err := env.roles.SetPermission(env.ctx, domain.SetRolePermissionRequest{
			RoleID: role.ID, Permission: "fly", Granted: true,
		})
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("unknown tracker id rejected", func(t *testing.T) {
		err := env.roles.SetPermission(env.ctx, domain.SetRolePermissionRequest{
			RoleID: role.ID, Permission: domain.PermViewIssueDescription,
			Granted: true, TrackerIDs: []int64{999},
		})
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("grant and revoke", func(t *testing.T) {
		require.NoError(t, env.roles.SetPermission(env.ctx, domain.SetRolePermissionRequest{
			RoleID: role.ID, Permission: domain.PermViewIssueDescription,
			Granted: true, TrackerIDs: []int64{bug.ID},
		}))
		got, err := env.roles.GetByID(env.ctx, role.ID)
		require.NoError(t, err)
		assert.True(t, got.HasPermission(domain.PermViewIssueDescription))

		require.NoError(t, env.roles.SetPermission(env.ctx, domain.SetRolePermissionRequest{
			RoleID: role.ID, Permission: domain.PermViewIssueDescription, Granted: false,
		}))
		got, err = env.roles.GetByID(env.ctx, role.ID)
		require.NoError(t, err)
		assert.False(t, got.HasPermission(domain.PermViewIssueDescription))
	})
}

func TestProjectServiceMemberships(t *testing.T) {
	env := newSvcEnv(t)

	user, err := env.principals.Create(env.ctx, domain.CreatePrincipalRequest{Login: "alice", Name: "Alice"})
	require.NoError(t, err)
	project, err := env.projects.Create(env.ctx, domain.CreateProjectRequest{Identifier: "p1"})
	require.NoError(t, err)
	role, err := env.roles.Create(env.ctx, domain.CreateRoleRequest{Name: "Viewer"})
	require.NoError(t, err)

	t.Run("membership requires roles", func(t *testing.T) {
		_, err := env.projects.AddMembership(env.ctx, domain.CreateMembershipRequest{
			UserID: user.ID, ProjectID: project.ID,
		})
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := env.projects.AddMembership(env.ctx, domain.CreateMembershipRequest{
			UserID: user.ID, ProjectID: project.ID, RoleIDs: []int64{999},
		})
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("add and remove", func(t *testing.T) {
		m, err := env.projects.AddMembership(env.ctx, domain.CreateMembershipRequest{
			UserID: user.ID, ProjectID: project.ID, RoleIDs: []int64{role.ID},
		})
		require.NoError(t, err)
		require.Len(t, m.Roles, 1)

		members, err := env.projects.Members(env.ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)

		require.NoError(t, env.projects.RemoveMembership(env.ctx, m.ID))
		members, err = env.projects.Members(env.ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("project name defaults to identifier", func(t *testing.T) {
		p, err := env.projects.Create(env.ctx, domain.CreateProjectRequest{Identifier: "p2"})
		require.NoError(t, err)
		assert.Equal(t, "p2", p.Name)
	})
}
