package issues

import (
	"context"

	"issuegate/internal/domain"
	"issuegate/internal/sqlexpr"
	"issuegate/internal/visibility"
)

// IssueService provides issue and watcher operations, filtered through the
// visibility core. Invisible issues surface as not-found so their existence
// leaks nothing.
type IssueService struct {
	issues     domain.IssueRepository
	projects   domain.ProjectRepository
	trackers   domain.TrackerRepository
	principals domain.PrincipalRepository
	audit      domain.AuditRepository

	host       visibility.HostPolicy
	resolver   *visibility.Resolver
	watchers   *visibility.WatcherRules
	evaluator  *visibility.Evaluator
	conditions *visibility.ConditionBuilder
}

// NewIssueService wires the issue service and its visibility core on top of
// the given host policy.
func NewIssueService(
	issues domain.IssueRepository,
	projects domain.ProjectRepository,
	trackers domain.TrackerRepository,
	principals domain.PrincipalRepository,
	audit domain.AuditRepository,
	host visibility.HostPolicy,
) *IssueService {
	resolver := visibility.NewResolver(host)
	watchers := visibility.NewWatcherRules(resolver, host)
	return &IssueService{
		issues:     issues,
		projects:   projects,
		trackers:   trackers,
		principals: principals,
		audit:      audit,
		host:       host,
		resolver:   resolver,
		watchers:   watchers,
		evaluator:  visibility.NewEvaluator(resolver, watchers, host),
		conditions: visibility.NewConditionBuilder(host),
	}
}

// Evaluator exposes the per-issue visibility decision for callers that hold
// an issue snapshot already.
func (s *IssueService) Evaluator() *visibility.Evaluator { return s.evaluator }

// Create validates and persists a new issue authored by the actor.
func (s *IssueService) Create(ctx context.Context, actor *domain.User, req domain.CreateIssueRequest) (*domain.Issue, error) {
	if !actor.LoggedIn() {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		ProjectID: req.ProjectID,
		TrackerID: req.TrackerID,
		Subject:   req.Subject,
		AuthorID:  actor.ID,
		IsPrivate: req.IsPrivate,
	}
	if req.AssignedToID != 0 {
		assignee, err := s.principals.GetByID(ctx, req.AssignedToID)
		if err != nil {
			return nil, err
		}
		issue.AssignedTo = assignee
	}
	created, err := s.issues.Create(ctx, issue)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, actor, "CREATE_ISSUE", created.Subject)
	return created, nil
}

// Show returns the issue when the actor may see it. Invisible and missing
// issues are indistinguishable.
func (s *IssueService) Show(ctx context.Context, actor *domain.User, id int64) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.evaluator.Visible(issue, actor) {
		return nil, domain.ErrNotFound("issue %d not found", id)
	}
	return issue, nil
}

// List returns every issue the actor may see, in id order. The visibility
// predicate is evaluated by the database, not per row in memory.
func (s *IssueService) List(ctx context.Context, actor *domain.User) ([]domain.Issue, error) {
	trackerIDs, err := s.trackers.IDs(ctx)
	if err != nil {
		return nil, err
	}
	cond := s.conditions.Build(actor, trackerIDs)
	return s.issues.ListWhere(ctx, sqlexpr.Format(cond))
}

// Delete removes an issue. Admin only.
func (s *IssueService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if actor == nil || !actor.IsAdmin {
		return domain.ErrAccessDenied("admin privileges required")
	}
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.issues.Delete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, actor, "DELETE_ISSUE", issue.Subject)
	return nil
}

// AddWatcher adds the principal to the issue's watcher list after checking
// both the actor's view of the issue and the candidate's eligibility.
func (s *IssueService) AddWatcher(ctx context.Context, actor *domain.User, issueID, principalID int64) error {
	issue, err := s.Show(ctx, actor, issueID)
	if err != nil {
		return err
	}
	candidate, err := s.principals.LoadUser(ctx, principalID)
	if err != nil {
		return err
	}
	if !s.watchers.ValidWatcher(issue, candidate) {
		return domain.ErrValidation("principal %d cannot watch issue %d", principalID, issueID)
	}
	if err := s.issues.AddWatcher(ctx, issueID, principalID); err != nil {
		return err
	}
	s.logAudit(ctx, actor, "ADD_WATCHER", candidate.Name)
	return nil
}

// RemoveWatcher removes the principal from the issue's watcher list.
func (s *IssueService) RemoveWatcher(ctx context.Context, actor *domain.User, issueID, principalID int64) error {
	if _, err := s.Show(ctx, actor, issueID); err != nil {
		return err
	}
	candidate, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return err
	}
	if err := s.issues.RemoveWatcher(ctx, issueID, principalID); err != nil {
		return err
	}
	s.logAudit(ctx, actor, "REMOVE_WATCHER", candidate.Name)
	return nil
}

// WatcherCandidates returns one page of principals that may be added as
// watchers of the issue, optionally narrowed by a search query. Principals
// already watching are excluded. The total is the match count before
// pagination.
func (s *IssueService) WatcherCandidates(ctx context.Context, actor *domain.User, issueID int64, page domain.PageRequest) ([]domain.User, int64, error) {
	issue, err := s.Show(ctx, actor, issueID)
	if err != nil {
		return nil, 0, err
	}
	members, err := s.projects.Members(ctx, issue.ProjectID)
	if err != nil {
		return nil, 0, err
	}

	var base []domain.User
	for i := range members {
		if s.host.BaseWatcherValid(issue, &members[i]) {
			base = append(base, members[i])
		}
	}
	candidates := s.watchers.AddableWatchers(issue, base, members)

	watching := make(map[int64]bool, len(issue.Watchers))
	for _, w := range issue.Watchers {
		watching[w.ID] = true
	}

	var matched []domain.User
	for i := range candidates {
		if watching[candidates[i].ID] {
			continue
		}
		if page.Matches(&candidates[i].Principal) {
			matched = append(matched, candidates[i])
		}
	}
	total := int64(len(matched))

	offset := page.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// EffectiveWatcher reports whether the actor counts as a visibility-granting
// watcher of the issue.
func (s *IssueService) EffectiveWatcher(issue *domain.Issue, actor *domain.User) bool {
	return s.watchers.EffectiveWatcher(issue, actor)
}

func (s *IssueService) logAudit(ctx context.Context, actor *domain.User, action, detail string) {
	name := "anonymous"
	if actor != nil && actor.Name != "" {
		name = actor.Name
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: name,
		Action:        action,
		Detail:        detail,
	})
}
