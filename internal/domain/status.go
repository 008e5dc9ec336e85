package domain

import "fmt"

// BookingStatus is the closed set of reservation states. The storage layer
// keeps it as TEXT; ParseBookingStatus is the only way back in.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// UnknownStatusError reports a stored status value outside the closed set.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown booking status %q", e.Value)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return BookingStatus(s), nil
	}
	return "", &UnknownStatusError{Value: s}
}

// Active reports whether the status holds the car's dates. Only pending and
// confirmed bookings block other reservations.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}
