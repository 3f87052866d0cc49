package domain

import "context"

type principalKey struct{}

// WithPrincipalLogin stores the authenticated principal's login in the
// context. The anonymous user has no entry.
func WithPrincipalLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, principalKey{}, login)
}

// PrincipalLoginFromContext extracts the authenticated principal's login from
// the context. ok is false for anonymous requests.
func PrincipalLoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(principalKey{}).(string)
	return login, ok
}
