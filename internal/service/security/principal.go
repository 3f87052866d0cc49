// Package security provides the administrative services: principals, roles,
// projects, trackers and the audit trail behind them.
package security

import (
	"context"

	"issuegate/internal/domain"
)

// PrincipalService provides principal management operations.
type PrincipalService struct {
	repo  domain.PrincipalRepository
	audit domain.AuditRepository
}

// NewPrincipalService creates a new PrincipalService.
func NewPrincipalService(repo domain.PrincipalRepository, audit domain.AuditRepository) *PrincipalService {
	return &PrincipalService{repo: repo, audit: audit}
}

// Create validates and persists a new principal.
func (s *PrincipalService) Create(ctx context.Context, req domain.CreatePrincipalRequest) (*domain.Principal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &domain.Principal{
		Login:   req.Login,
		Name:    req.Name,
		Type:    req.Type,
		IsAdmin: req.IsAdmin,
		Active:  true,
	}
	result, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, result.Name, "CREATE_PRINCIPAL", "")
	return result, nil
}

// GetByID returns a principal by ID.
func (s *PrincipalService) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all principals in id order.
func (s *PrincipalService) List(ctx context.Context) ([]domain.Principal, error) {
	return s.repo.List(ctx)
}

// Delete removes a principal by ID.
func (s *PrincipalService) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, p.Name, "DELETE_PRINCIPAL", "")
	return nil
}

// SetAdmin updates the admin status of a principal.
func (s *PrincipalService) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetAdmin(ctx, id, isAdmin); err != nil {
		return err
	}
	action := "SET_ADMIN"
	if !isAdmin {
		action = "UNSET_ADMIN"
	}
	s.logAudit(ctx, p.Name, action, "")
	return nil
}

// SetActive locks or unlocks a principal.
func (s *PrincipalService) SetActive(ctx context.Context, id int64, active bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	action := "ACTIVATE_PRINCIPAL"
	if !active {
		action = "LOCK_PRINCIPAL"
	}
	s.logAudit(ctx, p.Name, action, "")
	return nil
}

// AddGroupMember puts a user into a group.
func (s *PrincipalService) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsGroup() {
		return domain.ErrValidation("principal %d is not a group", groupID)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsGroup() {
		return domain.ErrValidation("group members must be users")
	}
	if err := s.repo.AddGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logAudit(ctx, group.Name, "ADD_GROUP_MEMBER", user.Name)
	return nil
}

// RemoveGroupMember takes a user out of a group.
func (s *PrincipalService) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logAudit(ctx, group.Name, "REMOVE_GROUP_MEMBER", user.Name)
	return nil
}

// GroupMembers lists a group's member users.
func (s *PrincipalService) GroupMembers(ctx context.Context, groupID int64) ([]domain.Principal, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsGroup() {
		return nil, domain.ErrValidation("principal %d is not a group", groupID)
	}
	return s.repo.GroupMembers(ctx, groupID)
}

func (s *PrincipalService) logAudit(ctx context.Context, principalName, action, detail string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principalName,
		Action:        action,
		Detail:        detail,
	})
}
