package domain

import "errors"

// Error kinds surfaced by the reservation core. Repos translate storage
// errors into these so callers never see the driver's native types.
var (
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrCarNotFound     = errors.New("car not found")
	ErrCarUnavailable  = errors.New("car is not available for the selected dates")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("a user with this email already exists")
	ErrBadCreds        = errors.New("invalid email or password")
	ErrPersistence     = errors.New("storage failure")
)
