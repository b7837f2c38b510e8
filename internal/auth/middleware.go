package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pawmark/auth-service/internal/account"
)

// Define a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key used to store the username in the context
	UserContextKey contextKey = "user"
)

// AdminMiddleware guards the admin endpoints: the bearer token must be valid
// and its account must carry the admin role. Admins are ordinary accounts
// with a distinguished role, not a separate credential path.
type AdminMiddleware struct {
	service *Service
}

func NewAdminMiddleware(service *Service) *AdminMiddleware {
	return &AdminMiddleware{service: service}
}

func (m *AdminMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := m.service.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Role != account.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the username the middleware stored, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UserContextKey).(string)
	return username, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
