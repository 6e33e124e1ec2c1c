package middleware

import (
	"net/http"

	"github.com/deskhive/deskhive/internal/domain"
)

// RequireAdmin rejects any session whose role is not admin.
// Assumes Auth() has already injected the role into context.
func RequireAdmin(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				// Middleware ordering issue (Auth not applied) or context missing
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			if !domain.IsAdmin(role) {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
