package security

import (
	"context"

	"issuegate/internal/domain"
)

// RoleService provides role management operations, including the per-tracker
// permission scopes the visibility core evaluates.
type RoleService struct {
	repo     domain.RoleRepository
	trackers domain.TrackerRepository
	audit    domain.AuditRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(repo domain.RoleRepository, trackers domain.TrackerRepository, audit domain.AuditRepository) *RoleService {
	return &RoleService{repo: repo, trackers: trackers, audit: audit}
}

// Create validates and persists a new role.
func (s *RoleService) Create(ctx context.Context, req domain.CreateRoleRequest) (*domain.Role, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := s.repo.Create(ctx, &domain.Role{Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, role.Name, "CREATE_ROLE", "")
	return role, nil
}

// GetByID returns a role by ID with its permission scopes.
func (s *RoleService) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all roles in id order.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.repo.List(ctx)
}

// Delete removes a role by ID.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, role.Name, "DELETE_ROLE", "")
	return nil
}

// SetPermission grants or revokes one permission on a role, with its tracker
// scope. Unknown tracker ids in the allowlist are rejected rather than
// silently dropped.
func (s *RoleService) SetPermission(ctx context.Context, req domain.SetRolePermissionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Granted && !req.AllTrackers && len(req.TrackerIDs) > 0 {
		known, err := s.trackers.IDs(ctx)
		if err != nil {
			return err
		}
		knownSet := make(map[int64]bool, len(known))
		for _, id := range known {
			knownSet[id] = true
		}
		for _, id := range req.TrackerIDs {
			if !knownSet[id] {
				return domain.ErrValidation("unknown tracker id %d", id)
			}
		}
	}

	role, err := s.repo.GetByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if err := s.repo.SetPermission(ctx, req); err != nil {
		return err
	}
	action := "GRANT_PERMISSION"
	if !req.Granted {
		action = "REVOKE_PERMISSION"
	}
	s.logAudit(ctx, role.Name, action, string(req.Permission))
	return nil
}

func (s *RoleService) logAudit(ctx context.Context, principalName, action, detail string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principalName,
		Action:        action,
		Detail:        detail,
	})
}
