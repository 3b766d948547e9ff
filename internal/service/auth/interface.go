package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
)

// IdentityProvider is the external account system. It owns credentials and
// token issuance; the core never sees a password hash.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.TokenPair, string, error)
}

type UserRepo interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)
}

type DriverRepo interface {
	Create(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error)
}
