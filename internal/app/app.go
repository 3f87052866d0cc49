// Package app provides application-level wiring and dependency injection.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"issuegate/internal/config"
	"issuegate/internal/db/repository"
	"issuegate/internal/domain"
	"issuegate/internal/service/issues"
	"issuegate/internal/service/security"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers the API handler needs.
type Services struct {
	Issue     *issues.IssueService
	Principal *security.PrincipalService
	Role      *security.RoleService
	Project   *security.ProjectService
	Audit     *security.AuditService
}

// App holds the fully-wired application: services plus the principal
// repository the API needs to resolve authenticated logins.
type App struct {
	Services   Services
	Principals domain.PrincipalRepository
}

// New wires all repositories and services from the provided deps. It also
// runs demo-data seeding when configured.
func New(ctx context.Context, deps Deps) (*App, error) {
	principalRepo := repository.NewPrincipalRepo(deps.WriteDB)
	projectRepo := repository.NewProjectRepo(deps.WriteDB)
	roleRepo := repository.NewRoleRepo(deps.WriteDB)
	trackerRepo := repository.NewTrackerRepo(deps.WriteDB)
	issueRepo := repository.NewIssueRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	host := issues.NewDefaultHostPolicy()
	issueSvc := issues.NewIssueService(issueRepo, projectRepo, trackerRepo, principalRepo, auditRepo, host)

	app := &App{
		Services: Services{
			Issue:     issueSvc,
			Principal: security.NewPrincipalService(principalRepo, auditRepo),
			Role:      security.NewRoleService(roleRepo, trackerRepo, auditRepo),
			Project:   security.NewProjectService(projectRepo, trackerRepo, roleRepo, auditRepo),
			Audit:     security.NewAuditService(auditRepo),
		},
		Principals: principalRepo,
	}

	if deps.Cfg.SeedDemoData {
		if err := seedDemoData(ctx, deps, app); err != nil {
			return nil, err
		}
	}
	return app, nil
}
