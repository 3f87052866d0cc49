package security

import (
	"context"

	"issuegate/internal/domain"
)

// AuditService exposes the audit trail.
type AuditService struct {
	repo domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns audit entries matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	return s.repo.List(ctx, filter)
}
