package dto

import (
	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/validator"
)

type RequestRideRequest struct {
	PassengerID    string `json:"passengerId"`
	PickupLocation string `json:"pickupLocation"`
	DropLocation   string `json:"dropLocation"`
	RideType       string `json:"rideType"`
}

func (r *RequestRideRequest) Validate(v *validator.Validator) {
	v.Check(r.PassengerID != "", "passengerId", "must be provided")
	if r.PassengerID != "" {
		_, err := uuid.Parse(r.PassengerID)
		v.Check(err == nil, "passengerId", "must be a valid UUID")
	}

	v.Check(r.PickupLocation != "", "pickupLocation", "must be provided")
	v.Check(len(r.PickupLocation) <= 255, "pickupLocation", "must not be more than 255 characters long")

	v.Check(r.DropLocation != "", "dropLocation", "must be provided")
	v.Check(len(r.DropLocation) <= 255, "dropLocation", "must not be more than 255 characters long")

	v.Check(r.RideType != "", "rideType", "must be provided")
	if r.RideType != "" {
		v.Check(types.ValidRideType(r.RideType), "rideType", "must be one of economy, comfort, or premium")
	}
}

func (r *RequestRideRequest) ToModel() (*models.Ride, error) {
	passengerID, err := uuid.Parse(r.PassengerID)
	if err != nil {
		return nil, err
	}

	return &models.Ride{
		PassengerID:    passengerID,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		RideType:       types.RideType(r.RideType),
	}, nil
}

type AcceptRideRequest struct {
	DriverID string `json:"driverId"`
}

func (r *AcceptRideRequest) Validate(v *validator.Validator) {
	v.Check(r.DriverID != "", "driverId", "must be provided")
	if r.DriverID != "" {
		_, err := uuid.Parse(r.DriverID)
		v.Check(err == nil, "driverId", "must be a valid UUID")
	}
}

type CancelRideRequest struct {
	CancelledBy string `json:"cancelledBy"`
}

func (r *CancelRideRequest) Validate(v *validator.Validator) {
	v.Check(r.CancelledBy != "", "cancelledBy", "must be provided")
	if r.CancelledBy != "" {
		v.Check(validator.PermittedValue(r.CancelledBy, "passenger", "driver"), "cancelledBy", "must be passenger or driver")
	}
}

// UpdateRideRequest carries a partial patch. Absent fields stay untouched.
type UpdateRideRequest struct {
	PickupLocation *string `json:"pickupLocation"`
	DropLocation   *string `json:"dropLocation"`
	RideType       *string `json:"rideType"`
	Status         *string `json:"status"`
	DriverID       *string `json:"driverId"`
}

func (r *UpdateRideRequest) Validate(v *validator.Validator) {
	if r.PickupLocation != nil {
		v.Check(*r.PickupLocation != "", "pickupLocation", "must not be empty")
		v.Check(len(*r.PickupLocation) <= 255, "pickupLocation", "must not be more than 255 characters long")
	}
	if r.DropLocation != nil {
		v.Check(*r.DropLocation != "", "dropLocation", "must not be empty")
		v.Check(len(*r.DropLocation) <= 255, "dropLocation", "must not be more than 255 characters long")
	}
	if r.RideType != nil {
		v.Check(types.ValidRideType(*r.RideType), "rideType", "must be one of economy, comfort, or premium")
	}
	if r.Status != nil {
		v.Check(types.ValidRideStatus(*r.Status), "status", "must be a known ride status")
	}
	if r.DriverID != nil {
		_, err := uuid.Parse(*r.DriverID)
		v.Check(err == nil, "driverId", "must be a valid UUID")
	}
}

func (r *UpdateRideRequest) ToPatch() (models.RideUpdate, error) {
	var upd models.RideUpdate

	upd.PickupLocation = r.PickupLocation
	upd.DropLocation = r.DropLocation

	if r.RideType != nil {
		rt := types.RideType(*r.RideType)
		upd.RideType = &rt
	}
	if r.Status != nil {
		st := types.RideStatus(*r.Status)
		upd.Status = &st
	}
	if r.DriverID != nil {
		id, err := uuid.Parse(*r.DriverID)
		if err != nil {
			return models.RideUpdate{}, err
		}
		upd.DriverID = &id
	}

	return upd, nil
}
