package app

import (
	"context"

	"issuegate/internal/domain"
)

// seedDemoData loads a small demo dataset so a fresh instance is explorable
// immediately. It is a no-op when principals already exist.
func seedDemoData(ctx context.Context, deps Deps, app *App) error {
	existing, err := app.Principals.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	deps.Logger.Info("seeding demo data")

	svc := app.Services
	admin, err := svc.Principal.Create(ctx, domain.CreatePrincipalRequest{
		Login: "admin", Name: "Administrator", IsAdmin: true,
	})
	if err != nil {
		return err
	}
	alice, err := svc.Principal.Create(ctx, domain.CreatePrincipalRequest{
		Login: "alice", Name: "Alice Doyle",
	})
	if err != nil {
		return err
	}
	bob, err := svc.Principal.Create(ctx, domain.CreatePrincipalRequest{
		Login: "bob", Name: "Bob Tran",
	})
	if err != nil {
		return err
	}

	project, err := svc.Project.Create(ctx, domain.CreateProjectRequest{
		Identifier: "demo", Name: "Demo Project",
	})
	if err != nil {
		return err
	}
	bug, err := svc.Project.CreateTracker(ctx, "Bug", 1)
	if err != nil {
		return err
	}
	if _, err := svc.Project.CreateTracker(ctx, "Feature", 2); err != nil {
		return err
	}

	viewer, err := svc.Role.Create(ctx, domain.CreateRoleRequest{Name: "Viewer"})
	if err != nil {
		return err
	}
	for _, perm := range domain.KnownPermissions {
		if err := svc.Role.SetPermission(ctx, domain.SetRolePermissionRequest{
			RoleID: viewer.ID, Permission: perm, Granted: true, AllTrackers: true,
		}); err != nil {
			return err
		}
	}
	bugWatcher, err := svc.Role.Create(ctx, domain.CreateRoleRequest{Name: "Bug Watcher"})
	if err != nil {
		return err
	}
	for _, perm := range domain.KnownPermissions {
		if err := svc.Role.SetPermission(ctx, domain.SetRolePermissionRequest{
			RoleID: bugWatcher.ID, Permission: perm, Granted: true, TrackerIDs: []int64{bug.ID},
		}); err != nil {
			return err
		}
	}

	if _, err := svc.Project.AddMembership(ctx, domain.CreateMembershipRequest{
		UserID: alice.ID, ProjectID: project.ID, RoleIDs: []int64{viewer.ID},
	}); err != nil {
		return err
	}
	if _, err := svc.Project.AddMembership(ctx, domain.CreateMembershipRequest{
		UserID: bob.ID, ProjectID: project.ID, RoleIDs: []int64{bugWatcher.ID},
	}); err != nil {
		return err
	}

	adminUser, err := app.Principals.LoadUser(ctx, admin.ID)
	if err != nil {
		return err
	}
	public, err := svc.Issue.Create(ctx, adminUser, domain.CreateIssueRequest{
		ProjectID: project.ID, TrackerID: bug.ID, Subject: "Public bug",
	})
	if err != nil {
		return err
	}
	if _, err := svc.Issue.Create(ctx, adminUser, domain.CreateIssueRequest{
		ProjectID: project.ID, TrackerID: bug.ID, Subject: "Private bug",
		AssignedToID: alice.ID, IsPrivate: true,
	}); err != nil {
		return err
	}
	return svc.Issue.AddWatcher(ctx, adminUser, public.ID, bob.ID)
}
