package middleware

import (
	"net/http"
	"strings"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/domain"
	"github.com/deskhive/deskhive/internal/infrastructure/security"
)

type TokenVerifier interface {
	VerifySessionToken(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth is the session gate. The credential is read from the "token"
// cookie first, then from Authorization: Bearer as a fallback; the cookie
// wins when both are present. Any verification failure clears the session
// cookie so broken browser state does not loop on 401s.
func Auth(verifier TokenVerifier, secureCookies bool, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := security.ReadSessionToken(r)
			if raw == "" {
				raw = bearerToken(r)
			}
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			claims, err := verifier.VerifySessionToken(raw)
			if err != nil {
				security.ClearSessionToken(w, secureCookies)
				writeErr(w, r, err)
				return
			}

			if strings.TrimSpace(claims.UserID) == "" {
				security.ClearSessionToken(w, secureCookies)
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
