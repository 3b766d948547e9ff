package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

// Auth validates the access token, loads the user and injects it into the
// context. Requests without a token pass through as anonymous; protected
// endpoints reject those via RequireRoles.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			r = r.WithContext(models.WithUser(ctx, models.AnonymousUser()))
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := m.auth.VerifyAccess(ctx, token)
		if err != nil || user == nil {
			m.log.Error(logger.ErrorCtx(ctx, err), "failed to authenticate user", err)
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = logger.WithUserID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireRoles wraps a handler and allows only users with one of the given
// roles. With no roles listed, any authenticated user passes.
func (m *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := models.UserFromContext(r.Context())
		if user == nil || user.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[user.Role]; !ok {
				errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
