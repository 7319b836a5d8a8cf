package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/videopipe/gostream/internal/auth"
)

type authCtxKey int

const claimsKey authCtxKey = iota

// Auth validates the bearer access token on every request through it:
// signature, expiry, token_type=access, and blacklist membership. On
// success the validated claims are attached to the request context for
// handlers to read via ClaimsFromContext.
func Auth(issuer *auth.Issuer, blacklist *auth.Blacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Validate(token, auth.TokenTypeAccess)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			revoked, err := blacklist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				http.Error(w, "failed to check token revocation", http.StatusInternalServerError)
				return
			}
			if revoked {
				http.Error(w, "token revoked", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the validated claims attached by Auth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
