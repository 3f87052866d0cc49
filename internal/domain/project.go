package domain

import "time"

// Project owns memberships and issues. The visibility core only reads it.
type Project struct {
	ID         int64
	Identifier string
	Name       string
	CreatedAt  time.Time
}

// Tracker categorizes issues within a project (e.g. Bug, Feature) and is the
// unit permissions can be scoped to below the project level.
type Tracker struct {
	ID       int64
	Name     string
	Position int
}

// CreateProjectRequest holds parameters for creating a project.
type CreateProjectRequest struct {
	Identifier string
	Name       string
}

// Validate checks that the request is well-formed.
func (r *CreateProjectRequest) Validate() error {
	if r.Identifier == "" {
		return ErrValidation("project identifier is required")
	}
	if r.Name == "" {
		r.Name = r.Identifier
	}
	return nil
}

// CreateMembershipRequest adds a user to a project with a set of roles.
type CreateMembershipRequest struct {
	UserID    int64
	ProjectID int64
	RoleIDs   []int64
}

// Validate checks that the request is well-formed.
func (r *CreateMembershipRequest) Validate() error {
	if r.UserID == 0 {
		return ErrValidation("user_id is required")
	}
	if r.ProjectID == 0 {
		return ErrValidation("project_id is required")
	}
	if len(r.RoleIDs) == 0 {
		return ErrValidation("at least one role is required")
	}
	return nil
}
