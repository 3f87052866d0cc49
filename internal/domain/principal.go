package domain

import "time"

// Principal type constants.
const (
	PrincipalUser  = "user"
	PrincipalGroup = "group"
)

// Principal represents a user or group. Watcher records and issue assignment
// may point at either kind.
type Principal struct {
	ID        int64
	Login     string // empty for groups
	Name      string
	Type      string // "user" or "group"
	IsAdmin   bool
	Active    bool
	CreatedAt time.Time
}

// IsGroup reports whether the principal is a group.
func (p *Principal) IsGroup() bool { return p != nil && p.Type == PrincipalGroup }

// User is a principal enriched with the membership and group snapshot the
// visibility core evaluates against. The snapshot is read-only; evaluators
// never mutate it.
type User struct {
	Principal
	GroupIDs    []int64      // groups this user belongs to
	Memberships []Membership // one per project, insertion order preserved
}

// LoggedIn reports whether the user is an authenticated (non-anonymous) user.
// A nil user is the anonymous user.
func (u *User) LoggedIn() bool {
	return u != nil && u.ID != 0 && u.Type == PrincipalUser
}

// IsOrBelongsTo reports whether the user is the given principal, or is a
// member of it when the principal is a group.
func (u *User) IsOrBelongsTo(p *Principal) bool {
	if u == nil || p == nil {
		return false
	}
	if p.ID == u.ID {
		return true
	}
	if p.Type != PrincipalGroup {
		return false
	}
	for _, gid := range u.GroupIDs {
		if gid == p.ID {
			return true
		}
	}
	return false
}

// MembershipFor returns the user's membership in the given project, or nil.
func (u *User) MembershipFor(projectID int64) *Membership {
	if u == nil {
		return nil
	}
	for i := range u.Memberships {
		if u.Memberships[i].ProjectID == projectID {
			return &u.Memberships[i]
		}
	}
	return nil
}

// RolesForProject returns the roles the user holds in the given project.
func (u *User) RolesForProject(projectID int64) []Role {
	m := u.MembershipFor(projectID)
	if m == nil {
		return nil
	}
	return m.Roles
}

// CreatePrincipalRequest holds parameters for creating a new principal.
type CreatePrincipalRequest struct {
	Login   string
	Name    string
	Type    string // "user" or "group"; defaults to "user"
	IsAdmin bool
}

// Validate checks that the request is well-formed.
func (r *CreatePrincipalRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("principal name is required")
	}
	if r.Type == "" {
		r.Type = PrincipalUser
	}
	if r.Type != PrincipalUser && r.Type != PrincipalGroup {
		return ErrValidation("type must be 'user' or 'group'")
	}
	if r.Type == PrincipalUser && r.Login == "" {
		return ErrValidation("user login is required")
	}
	return nil
}
