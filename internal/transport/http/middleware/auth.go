package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/estate-leads-api/internal/domain"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller: the token claims plus the user
// record as loaded when the request was authenticated.
type Principal struct {
	UserID string
	User   *domain.User
	Claims *jwtinfra.Claims
}

// TokenVerifier checks a bearer token. ok is false for any invalid token.
type TokenVerifier interface {
	VerifyToken(token string) (*jwtinfra.Claims, bool)
}

// UserLookup resolves users by id.
type UserLookup interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Authenticate validates the Bearer token, re-resolves its user and stores a
// Principal in the request context. Tokens of deleted users are rejected.
func Authenticate(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}
			claims, ok := tokens.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}
			u, err := users.Get(r.Context(), claims.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: User not found")
				return
			}
			if err != nil {
				slog.Error("authentication lookup failed", "user_id", claims.UserID, "err", err)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Authentication failed")
				return
			}
			p := &Principal{UserID: claims.UserID, User: u, Claims: claims}
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the caller stored by Authenticate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
