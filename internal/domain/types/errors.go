package types

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDriverNotFound = errors.New("driver not found")
	ErrRideNotFound   = errors.New("ride not found")

	ErrInvalidInput        = errors.New("missing or invalid required field")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidCancelledBy  = errors.New("cancelledBy must be passenger or driver")
	ErrRideAlreadyFinished = errors.New("ride is already completed or cancelled")
)
