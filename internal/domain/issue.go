package domain

import "time"

// WatchableIssue is the watchable_type discriminator for issue watcher rows.
const WatchableIssue = "Issue"

// Issue belongs to exactly one project and at most one tracker. The watcher
// and assignee fields carry the principal snapshot the visibility core needs;
// a zero TrackerID means no tracker is assigned.
type Issue struct {
	ID         int64
	ProjectID  int64
	TrackerID  int64
	Subject    string
	AuthorID   int64
	AssignedTo *Principal
	Watchers   []Principal // users and/or groups, explicit watcher list
	IsPrivate  bool
	CreatedAt  time.Time
}

// Watcher is one watcher record. UserID may reference a group principal,
// mirroring the storage shape the bulk predicate's existential subquery runs
// against.
type Watcher struct {
	ID            int64
	WatchableType string
	WatchableID   int64
	UserID        int64
}

// CreateIssueRequest holds parameters for creating an issue.
type CreateIssueRequest struct {
	ProjectID    int64
	TrackerID    int64
	Subject      string
	AssignedToID int64
	IsPrivate    bool
}

// Validate checks that the request is well-formed.
func (r *CreateIssueRequest) Validate() error {
	if r.ProjectID == 0 {
		return ErrValidation("project_id is required")
	}
	if r.Subject == "" {
		return ErrValidation("subject is required")
	}
	return nil
}
