// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"strings"

	"issuegate/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware resolves an HS256 JWT Bearer token to a principal login and
// stores it in the request context. Requests without a valid token proceed as
// the anonymous user rather than being rejected; access decisions are made
// per operation, and anonymous users legitimately see public issues.
func AuthMiddleware(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				tokenStr := strings.TrimPrefix(auth, "Bearer ")
				token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
					return jwtSecret, nil
				}, jwt.WithValidMethods([]string{"HS256"}))

				if err == nil && token.Valid {
					if claims, ok := token.Claims.(jwt.MapClaims); ok {
						if sub, ok := claims["sub"].(string); ok && sub != "" {
							ctx := domain.WithPrincipalLogin(r.Context(), sub)
							next.ServeHTTP(w, r.WithContext(ctx))
							return
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
