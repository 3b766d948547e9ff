package dto

import (
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/validator"
)

type SetAvailabilityRequest struct {
	Availability string `json:"availability"`
}

func (r *SetAvailabilityRequest) Validate(v *validator.Validator) {
	v.Check(r.Availability != "", "availability", "must be provided")
	if r.Availability != "" {
		v.Check(types.ValidDriverAvailability(r.Availability), "availability", "must be available or unavailable")
	}
}
