package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// Ride is the durable trip record. The JSON shape is the wire contract for
// both HTTP responses and WebSocket push messages.
type Ride struct {
	ID             uuid.UUID        `json:"id"`
	PickupLocation string           `json:"pickupLocation"`
	DropLocation   string           `json:"dropLocation"`
	RideType       types.RideType   `json:"rideType"`
	Status         types.RideStatus `json:"status"`
	PassengerID    uuid.UUID        `json:"passengerId"`
	DriverID       *uuid.UUID       `json:"driverId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RideUpdate is a partial-merge patch applied atomically to a single ride row.
// Nil fields are left untouched.
type RideUpdate struct {
	PickupLocation *string
	DropLocation   *string
	RideType       *types.RideType
	Status         *types.RideStatus
	DriverID       *uuid.UUID
}

// Empty reports whether the patch changes nothing.
func (u RideUpdate) Empty() bool {
	return u.PickupLocation == nil && u.DropLocation == nil &&
		u.RideType == nil && u.Status == nil && u.DriverID == nil
}
