package driver

import (
	"context"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

type DriverRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error)
	SetAvailability(ctx context.Context, driverID uuid.UUID, availability types.DriverAvailability) error
	ListAvailableByType(ctx context.Context, rideType types.RideType) ([]models.Driver, error)
}

// PresenceStore tracks short-lived driver liveness separately from the
// persisted availability flag.
type PresenceStore interface {
	MarkOnline(ctx context.Context, driverID uuid.UUID) error
	MarkOffline(ctx context.Context, driverID uuid.UUID) error
	FilterOnline(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
