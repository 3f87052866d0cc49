package security

import (
	"context"

	"issuegate/internal/domain"
)

// ProjectService provides project, tracker and membership management.
type ProjectService struct {
	projects domain.ProjectRepository
	trackers domain.TrackerRepository
	roles    domain.RoleRepository
	audit    domain.AuditRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects domain.ProjectRepository, trackers domain.TrackerRepository, roles domain.RoleRepository, audit domain.AuditRepository) *ProjectService {
	return &ProjectService{projects: projects, trackers: trackers, roles: roles, audit: audit}
}

// Create validates and persists a new project.
func (s *ProjectService) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	project, err := s.projects.Create(ctx, &domain.Project{Identifier: req.Identifier, Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, project.Identifier, "CREATE_PROJECT", "")
	return project, nil
}

// GetByID returns a project by ID.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns all projects in id order.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// Delete removes a project by ID.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, project.Identifier, "DELETE_PROJECT", "")
	return nil
}

// AddMembership puts a principal into a project with the given roles.
func (s *ProjectService) AddMembership(ctx context.Context, req domain.CreateMembershipRequest) (*domain.Membership, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, roleID := range req.RoleIDs {
		if _, err := s.roles.GetByID(ctx, roleID); err != nil {
			return nil, err
		}
	}
	m, err := s.projects.AddMembership(ctx,
		&domain.Membership{UserID: req.UserID, ProjectID: req.ProjectID}, req.RoleIDs)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, project.Identifier, "ADD_MEMBERSHIP", "")
	return m, nil
}

// RemoveMembership removes a membership by its id.
func (s *ProjectService) RemoveMembership(ctx context.Context, id int64) error {
	if err := s.projects.RemoveMembership(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "", "REMOVE_MEMBERSHIP", "")
	return nil
}

// Members lists the project's member principals with their snapshots.
func (s *ProjectService) Members(ctx context.Context, projectID int64) ([]domain.User, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projects.Members(ctx, projectID)
}

// CreateTracker persists a new tracker.
func (s *ProjectService) CreateTracker(ctx context.Context, name string, position int) (*domain.Tracker, error) {
	if name == "" {
		return nil, domain.ErrValidation("tracker name is required")
	}
	tracker, err := s.trackers.Create(ctx, &domain.Tracker{Name: name, Position: position})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, tracker.Name, "CREATE_TRACKER", "")
	return tracker, nil
}

// ListTrackers returns all trackers in position order.
func (s *ProjectService) ListTrackers(ctx context.Context) ([]domain.Tracker, error) {
	return s.trackers.List(ctx)
}

// DeleteTracker removes a tracker by ID.
func (s *ProjectService) DeleteTracker(ctx context.Context, id int64) error {
	if err := s.trackers.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "", "DELETE_TRACKER", "")
	return nil
}

func (s *ProjectService) logAudit(ctx context.Context, principalName, action, detail string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principalName,
		Action:        action,
		Detail:        detail,
	})
}
