package domain

import "strings"

// DefaultPageSize is the page size when none is specified.
const DefaultPageSize = 25

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 100

// PageRequest holds pagination and search parameters for candidate listings.
// Page numbers start at 1; the size is clamped to [1, MaxPageSize].
type PageRequest struct {
	Page    int
	PerPage int
	Query   string // optional case-insensitive substring over name/login
}

// Limit returns the effective page size.
func (p PageRequest) Limit() int {
	if p.PerPage <= 0 {
		return DefaultPageSize
	}
	if p.PerPage > MaxPageSize {
		return MaxPageSize
	}
	return p.PerPage
}

// Offset returns the zero-based offset of the first item on the page.
func (p PageRequest) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// Matches reports whether the principal matches the search query. An empty
// query matches everything.
func (p PageRequest) Matches(principal *Principal) bool {
	q := strings.TrimSpace(p.Query)
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(principal.Name), q) ||
		strings.Contains(strings.ToLower(principal.Login), q)
}
