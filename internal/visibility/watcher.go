package visibility

import "issuegate/internal/domain"

// WatcherRules decides watcher-related eligibility: whether a user counts as
// an effective watcher for visibility purposes, and whether a candidate may
// be added to an issue's watcher list. None of the decisions error; absent
// inputs degrade to a deny.
type WatcherRules struct {
	resolver *Resolver
	host     HostPolicy
}

// NewWatcherRules creates WatcherRules on top of the grant resolver and the
// host's default watcher rules.
func NewWatcherRules(resolver *Resolver, host HostPolicy) *WatcherRules {
	return &WatcherRules{resolver: resolver, host: host}
}

// EffectiveWatcher reports whether the user is a watcher whose watcher-ship
// grants visibility: logged in, holding the watch permission for the issue's
// tracker, and either directly on the watcher list or a member of a watching
// group.
func (w *WatcherRules) EffectiveWatcher(issue *domain.Issue, user *domain.User) bool {
	if issue == nil || !user.LoggedIn() {
		return false
	}
	if !w.resolver.GrantedForIssue(user, issue, domain.PermViewWatchedIssues) {
		return false
	}
	for i := range issue.Watchers {
		if user.IsOrBelongsTo(&issue.Watchers[i]) {
			return true
		}
	}
	return false
}

// ValidWatcher reports whether the candidate may be added as a watcher of the
// issue. An active, logged-in user with the watch permission qualifies; any
// other candidate falls back to the host's own validity rule. The fallback is
// an OR: a candidate the host already accepts needs no permission.
func (w *WatcherRules) ValidWatcher(issue *domain.Issue, candidate *domain.User) bool {
	if issue == nil || candidate == nil {
		return false
	}
	if candidate.LoggedIn() && candidate.Active &&
		w.resolver.GrantedForIssue(candidate, issue, domain.PermViewWatchedIssues) {
		return true
	}
	return w.host.BaseWatcherValid(issue, candidate)
}

// AddableWatchers returns the union of the host's base candidate list and
// every project member holding the watch permission for the issue's tracker,
// deduplicated by principal id. Order is base candidates first, then members
// in their given order, so pagination over the result is stable.
func (w *WatcherRules) AddableWatchers(issue *domain.Issue, base []domain.User, members []domain.User) []domain.User {
	if issue == nil {
		return nil
	}

	seen := make(map[int64]bool, len(base))
	out := make([]domain.User, 0, len(base))
	for _, u := range base {
		if !seen[u.ID] {
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	for _, u := range members {
		if seen[u.ID] {
			continue
		}
		if w.resolver.GrantedForIssue(&u, issue, domain.PermViewWatchedIssues) {
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out
}
