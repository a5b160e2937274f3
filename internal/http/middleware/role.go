package middleware

import (
	"context"
	"net/http"

	"autoshop/internal/identity"
)

// RoleLookup resolves the role stored on a user's profile.
type RoleLookup interface {
	Role(ctx context.Context, userID string) (string, error)
}

// RequireRole gates a route on the profile role of the authenticated user.
// It must run after UserJWT.
func RequireRole(lookup RoleLookup, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := identity.UserFromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			got, err := lookup.Role(r.Context(), user.ID)
			if err != nil {
				http.Error(w, "failed to resolve role", http.StatusInternalServerError)
				return
			}
			if got != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
