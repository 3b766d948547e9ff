package dto

import (
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/validator"
)

type RegisterPassengerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterPassengerRequest) Validate(v *validator.Validator) {
	validateAccountFields(v, r.Name, r.Email, r.Password)
}

type RegisterDriverRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RideType string `json:"rideType"`
}

func (r *RegisterDriverRequest) Validate(v *validator.Validator) {
	validateAccountFields(v, r.Name, r.Email, r.Password)

	v.Check(r.RideType != "", "rideType", "must be provided")
	if r.RideType != "" {
		v.Check(types.ValidRideType(r.RideType), "rideType", "must be one of economy, comfort, or premium")
	}
}

func validateAccountFields(v *validator.Validator, name, email, password string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(len(name) <= 500, "name", "must not be more than 500 bytes long")

	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(email) <= 500, "email", "must not be more than 500 bytes long")

	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate(v *validator.Validator) {
	v.Check(r.Email != "", "email", "must be provided")
	v.Check(r.Password != "", "password", "must be provided")
}
