package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/repos"
)

// BookingService composes the catalog, the reservation ledger and the
// pricing rule into the create-reservation workflow.
type BookingService struct {
	Cars     *repos.CarRepo
	Bookings *repos.BookingRepo
}

func NewBookingService(cars *repos.CarRepo, bookings *repos.BookingRepo) *BookingService {
	return &BookingService{Cars: cars, Bookings: bookings}
}

// HasOverlap reports whether any Pending or Confirmed booking for the car
// intersects the inclusive day range [start, end]. Back-to-back ranges that
// share a boundary day count as overlapping.
func (s *BookingService) HasOverlap(carID string, start, end time.Time) (bool, error) {
	n, err := s.Bookings.Overlapping(carID, start, end)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Quote prices a car over [start, end]: daily rate times the inclusive day
// count. A single-day range costs one day.
func (s *BookingService) Quote(carID string, start, end time.Time) (domain.Quote, error) {
	if domain.Day(start).After(domain.Day(end)) {
		return domain.Quote{}, domain.ErrInvalidRange
	}
	car, err := s.Cars.Get(carID)
	if err != nil {
		return domain.Quote{}, err
	}
	days := domain.DaysInclusive(start, end)
	return domain.Quote{CarID: carID, Days: days, Total: car.PricePerDay * float64(days)}, nil
}

// CreateBooking runs the reservation workflow: validate the range, fetch the
// car, check the ledger for overlaps, price the stay, insert a Pending
// booking. Each step short-circuits; the ledger is written exactly once on
// success and never on failure. The insert re-checks the overlap inside one
// transaction so two racing requests cannot both win.
func (s *BookingService) CreateBooking(ctx context.Context, userID, carID string, start, end time.Time) (domain.Booking, error) {
	start, end = domain.Day(start), domain.Day(end)
	if start.After(end) {
		return domain.Booking{}, domain.ErrInvalidRange
	}

	car, err := s.Cars.Get(carID)
	if err != nil {
		return domain.Booking{}, err
	}

	taken, err := s.HasOverlap(carID, start, end)
	if err != nil {
		return domain.Booking{}, err
	}
	if taken {
		return domain.Booking{}, domain.ErrCarUnavailable
	}

	days := domain.DaysInclusive(start, end)
	booking := domain.Booking{
		ID:         uuid.NewString(),
		UserID:     userID,
		CarID:      carID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: car.PricePerDay * float64(days),
		Status:     domain.StatusPending,
	}

	if err := s.Bookings.InsertIfFree(booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

func (s *BookingService) GetBooking(id string) (domain.Booking, error) {
	return s.Bookings.Get(id)
}

func (s *BookingService) ListUserBookings(userID string) ([]domain.Booking, error) {
	return s.Bookings.ListByUser(userID)
}

func (s *BookingService) ListLatest(limit int) ([]domain.Booking, error) {
	return s.Bookings.ListLatest(limit)
}

// SetStatus moves a booking to an operator-chosen status. Transitions other
// than creation are operational, not part of the reservation workflow.
func (s *BookingService) SetStatus(id string, status domain.BookingStatus) error {
	return s.Bookings.UpdateStatus(id, status)
}
