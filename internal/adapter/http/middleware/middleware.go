package middleware

import (
	"context"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

type (
	AuthService interface {
		VerifyAccess(ctx context.Context, token string) (*models.User, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
