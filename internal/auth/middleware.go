package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrUnauthenticated is returned by an IdentityResolver when the token is
// missing, invalid, expired, or names a user that no longer exists.
var ErrUnauthenticated = errors.New("unauthenticated")

// IdentityResolver turns a bearer token into the principal it names.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (models.User, error)
}

type contextKey string

// UserKey is the context key for the resolved user.
const UserKey = contextKey("user")

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext returns the user attached by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserKey).(models.User)
	return user, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware protects routes. Every request must carry a bearer token that
// resolves to an existing user; the user is then available via UserFromContext.
// With allowQuery the token may also come from the "token" query parameter,
// which browsers need for websocket upgrades.
func Middleware(resolver IdentityResolver, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" && allowQuery {
				tokenStr = r.URL.Query().Get("token")
			}
			if tokenStr == "" {
				Unauthorized(w)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), tokenStr)
			if errors.Is(err, ErrUnauthenticated) {
				log.Debug().Str("path", r.URL.Path).Msg("Rejected request token")
				Unauthorized(w)
				return
			}
			if err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to resolve request token")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Unauthorized writes the single rejection shape used for every authentication failure.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "Invalid credentials", http.StatusUnauthorized)
}
