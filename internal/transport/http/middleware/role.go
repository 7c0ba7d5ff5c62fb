package middleware

import (
	"log/slog"
	"net/http"
)

// AdminChecker reports whether a phone number is currently on the admin list.
type AdminChecker interface {
	IsAdmin(phone string) bool
}

// RequireAgent allows approved agents only. The user snapshot taken by
// Authenticate must be an approved agent, and so must the stored user at the
// time of this request.
func RequireAgent(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || p.User == nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: User authentication required")
				return
			}
			if !p.User.IsAgent {
				writeJSONError(w, http.StatusForbidden, "Forbidden: User is not an agent")
				return
			}
			if !p.User.IsApproved {
				writeJSONError(w, http.StatusForbidden, "Forbidden: Agent approval pending")
				return
			}
			fresh, err := users.Get(r.Context(), p.UserID)
			if err != nil || !fresh.IsApprovedAgent() {
				if err != nil {
					slog.Warn("agent re-check failed", "user_id", p.UserID, "err", err)
				}
				writeJSONError(w, http.StatusForbidden, "Forbidden: Agent status invalid")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin checks the caller's phone number against the live admin list;
// the isAdmin token claim is not consulted.
func RequireAdmin(admins AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || p.User == nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: User authentication required")
				return
			}
			if !admins.IsAdmin(p.User.PhoneNumber) {
				writeJSONError(w, http.StatusForbidden, "Forbidden: Not an admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
