package domain

import "time"

// AuditEntry records an administrative mutation.
type AuditEntry struct {
	ID            string
	PrincipalName string
	Action        string
	Detail        string
	CreatedAt     time.Time
}

// AuditFilter holds filter parameters for querying the audit log.
type AuditFilter struct {
	PrincipalName string
	Action        string
	Limit         int
	Offset        int
}
