package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// Driver extends a driver-role user with vehicle class and availability.
type Driver struct {
	ID           uuid.UUID                `json:"id"`
	UserID       uuid.UUID                `json:"userId"`
	Name         string                   `json:"name"`
	RideType     types.RideType           `json:"rideType"`
	Availability types.DriverAvailability `json:"availability"`
	CreatedAt    time.Time                `json:"createdAt"`
}
