package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/IRFXN3671/TaskFlow/internal/token"
)

type identityContextKey struct{}

// authenticate is the access gate: stage one verifies the bearer token, stage
// two re-checks the live activation state so a deactivated account is locked
// out before its token expires.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		tokenString := bearerToken(r.Header.Get("Authorization"))
		if tokenString == "" {
			writeMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := h.codec.Verify(tokenString)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		active, err := h.store.IsActive(r.Context(), claims.UserID)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !active {
			// No employee record reads the same as a deactivated one.
			writeMessage(w, http.StatusForbidden, "Account is inactive")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects callers whose role is not in the allow-list.
func (h *Handler) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := identityFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeMessage(w, http.StatusForbidden, "Access denied")
	}
}

func identityFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(identityContextKey{}).(token.Claims)
	return claims, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
