package visibility

import "issuegate/internal/domain"

// Evaluator is the per-issue visibility decision.
type Evaluator struct {
	resolver *Resolver
	watchers *WatcherRules
	host     HostPolicy
}

// NewEvaluator creates an Evaluator from the grant resolver, watcher rules,
// and host policy.
func NewEvaluator(resolver *Resolver, watchers *WatcherRules, host HostPolicy) *Evaluator {
	return &Evaluator{resolver: resolver, watchers: watchers, host: host}
}

// Visible reports whether the user may see the issue. The rules apply in
// order, short-circuiting at the first hit:
//
//  1. no user: not visible
//  2. admin: visible
//  3. user is or belongs to the assignee: visible
//  4. the description permission is a hard gate; without it nothing below
//     rule 3 can grant visibility
//  5. effective watcher-ship or the host's base rule, either suffices
func (e *Evaluator) Visible(issue *domain.Issue, user *domain.User) bool {
	if issue == nil || user == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	if user.IsOrBelongsTo(issue.AssignedTo) {
		return true
	}

	if !e.resolver.GrantedForIssue(user, issue, domain.PermViewIssueDescription) {
		return false
	}

	return e.watchers.EffectiveWatcher(issue, user) || e.host.BaseVisible(issue, user)
}
