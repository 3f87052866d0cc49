package domain

import "context"

// PrincipalRepository provides CRUD operations for users and groups.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByID(ctx context.Context, id int64) (*Principal, error)
	GetByLogin(ctx context.Context, login string) (*Principal, error)
	List(ctx context.Context) ([]Principal, error)
	Delete(ctx context.Context, id int64) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	SetActive(ctx context.Context, id int64, active bool) error

	AddGroupMember(ctx context.Context, groupID, userID int64) error
	RemoveGroupMember(ctx context.Context, groupID, userID int64) error
	GroupIDsForUser(ctx context.Context, userID int64) ([]int64, error)
	GroupMembers(ctx context.Context, groupID int64) ([]Principal, error)

	// LoadUser assembles the full snapshot (principal + groups + memberships
	// with roles) the visibility core evaluates against.
	LoadUser(ctx context.Context, id int64) (*User, error)
	LoadUserByLogin(ctx context.Context, login string) (*User, error)
}

// ProjectRepository provides operations for projects and memberships.
type ProjectRepository interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Delete(ctx context.Context, id int64) error

	AddMembership(ctx context.Context, m *Membership, roleIDs []int64) (*Membership, error)
	RemoveMembership(ctx context.Context, id int64) error
	// Members returns the user principals belonging to the project, in a
	// stable name order.
	Members(ctx context.Context, projectID int64) ([]User, error)
}

// RoleRepository provides operations for roles and their permission scopes.
type RoleRepository interface {
	Create(ctx context.Context, r *Role) (*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Delete(ctx context.Context, id int64) error
	SetPermission(ctx context.Context, req SetRolePermissionRequest) error
}

// TrackerRepository provides operations for trackers.
type TrackerRepository interface {
	Create(ctx context.Context, t *Tracker) (*Tracker, error)
	List(ctx context.Context) ([]Tracker, error)
	// IDs returns every tracker id in position order; the bulk predicate
	// builder intersects role allowlists against it.
	IDs(ctx context.Context) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

// IssueRepository provides operations for issues and watcher records.
type IssueRepository interface {
	Create(ctx context.Context, i *Issue) (*Issue, error)
	// GetByID loads the issue with its assignee and watcher principals.
	GetByID(ctx context.Context, id int64) (*Issue, error)
	// ListWhere returns issues matching the rendered SQL predicate, ordered
	// by id. The predicate references columns of the issues table.
	ListWhere(ctx context.Context, whereSQL string) ([]Issue, error)
	Delete(ctx context.Context, id int64) error

	AddWatcher(ctx context.Context, issueID, principalID int64) error
	RemoveWatcher(ctx context.Context, issueID, principalID int64) error
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}
