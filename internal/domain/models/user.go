package models

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// User is the local profile row backing an identity-provider account.
type User struct {
	ID        uuid.UUID      `json:"id"`
	AuthID    string         `json:"authId"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      types.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
}

var anonymous = &User{}

// AnonymousUser is the placeholder for unauthenticated requests.
func AnonymousUser() *User {
	return anonymous
}

func (u *User) IsAnonymous() bool {
	return u == anonymous
}

type userCtxKey struct{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the authenticated user, or nil when absent.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
