package ride

import (
	"context"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// RideRepo is the ride slice of the external data store.
type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	ApplyUpdate(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error)
	ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error)
}

// EventBroadcaster pushes ride events to live subscriber connections.
// Fire-and-forget: implementations never surface delivery errors.
type EventBroadcaster interface {
	BroadcastAll(ctx context.Context, event types.RideEventType, ride *models.Ride)
	SendTo(ctx context.Context, subscriberID uuid.UUID, event types.RideEventType, ride *models.Ride)
	SendCancelled(ctx context.Context, subscriberID uuid.UUID, ride *models.Ride, cancelledBy types.UserRole)
}

// EventFeed publishes committed transitions to the durable event feed.
type EventFeed interface {
	Publish(ctx context.Context, event types.RideEventType, ride *models.Ride)
}
