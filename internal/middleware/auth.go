package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"dataroom/internal/domain"
	"dataroom/internal/httputil"
)

// Identity resolves the bearer token, if any, and stores the user ID in the
// request context. Invalid or revoked tokens leave the request anonymous;
// handlers that require authentication reject those with 401. This mirrors the
// optional-auth routes (root listing, folder browsing) which serve anonymous
// readers.
func Identity(tokens domain.TokenManager, revoked domain.TokenBlacklist, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(r.Context(), raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			// A blacklist lookup failure must not let a possibly revoked
			// token through; the request proceeds anonymously instead.
			isRevoked, err := revoked.IsRevoked(r.Context(), claims.JTI)
			if err != nil {
				logger.Error("token blacklist lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if isRevoked {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.UserID))
		})
	}
}

// RequireAuth wraps a handler that must only serve authenticated requests.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if httputil.GetUserID(r) == 0 {
			httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

func extractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
