// Package features wires the generic flow engine to the application's
// interactive flows. Each feature defines its own State, Event and Effect
// shapes and a handler mapping events to state transitions and effects.
package features

import (
	"context"
	"errors"
	"time"

	"github.com/kstobd/DriveNext/internal/connectivity"
	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/flow"
	"github.com/kstobd/DriveNext/internal/services"
)

// CarDetailState is one snapshot of the booking flow. Date selection and
// in-flight-ness are independent axes, so they are fields, not an enum.
type CarDetailState struct {
	CarID             string // which car this snapshot belongs to
	Car               *domain.Car
	StartDate         *time.Time
	EndDate           *time.Time
	TotalPrice        float64
	Loading           bool
	BookingInProgress bool
	DateError         string
}

type CarDetailEvent interface{ isCarDetailEvent() }

type LoadCar struct{ CarID string }
type StartDateSelected struct{ Date time.Time }
type EndDateSelected struct{ Date time.Time }
type BookCar struct{ UserID string }
type BackPressed struct{}

func (LoadCar) isCarDetailEvent()           {}
func (StartDateSelected) isCarDetailEvent() {}
func (EndDateSelected) isCarDetailEvent()   {}
func (BookCar) isCarDetailEvent()           {}
func (BackPressed) isCarDetailEvent()       {}

type CarDetailEffect interface{ isCarDetailEffect() }

type NavigateBack struct{}
type ShowError struct{ Message string }
type BookingSuccess struct{ BookingID string }

func (NavigateBack) isCarDetailEffect()   {}
func (ShowError) isCarDetailEffect()      {}
func (BookingSuccess) isCarDetailEffect() {}

type CarDetailStore = flow.Store[CarDetailState, CarDetailEvent, CarDetailEffect]

type carDetail struct {
	catalog  *services.CatalogService
	bookings *services.BookingService
	net      connectivity.Signal
	now      func() time.Time
}

// NewCarDetail builds the booking-flow controller for one car-detail screen.
func NewCarDetail(catalog *services.CatalogService, bookings *services.BookingService, net connectivity.Signal) *CarDetailStore {
	f := &carDetail{catalog: catalog, bookings: bookings, net: net, now: time.Now}
	return flow.New(CarDetailState{Loading: true}, f.handle)
}

func (f *carDetail) handle(ctx context.Context, st *CarDetailStore, ev CarDetailEvent) {
	switch e := ev.(type) {
	case LoadCar:
		f.loadCar(st, e.CarID)
	case StartDateSelected:
		f.selectDates(st, &e.Date, nil)
	case EndDateSelected:
		f.selectDates(st, nil, &e.Date)
	case BookCar:
		f.bookCar(ctx, st, e.UserID)
	case BackPressed:
		st.Emit(NavigateBack{})
	}
}

func (f *carDetail) loadCar(st *CarDetailStore, carID string) {
	st.Update(func(s CarDetailState) CarDetailState {
		s.CarID = carID
		s.Car = nil
		s.Loading = true
		return s
	})

	go func() {
		car, err := f.catalog.GetCar(carID)
		if err != nil {
			st.Update(func(s CarDetailState) CarDetailState {
				if s.CarID != carID {
					return s // a newer load superseded this one
				}
				s.Loading = false
				return s
			})
			if st.State().CarID != carID {
				return // a superseded failure must not navigate away
			}
			st.Emit(ShowError{Message: "Failed to load car details"})
			st.Emit(NavigateBack{})
			return
		}
		st.Update(func(s CarDetailState) CarDetailState {
			if s.CarID != carID {
				return s
			}
			s.Car = &car
			s.Loading = false
			return s
		})
	}()
}

// selectDates applies whichever endpoint changed, revalidates and reprices.
func (f *carDetail) selectDates(st *CarDetailStore, start, end *time.Time) {
	st.Update(func(s CarDetailState) CarDetailState {
		if start != nil {
			d := domain.Day(*start)
			s.StartDate = &d
		}
		if end != nil {
			d := domain.Day(*end)
			s.EndDate = &d
		}
		s.DateError = f.validateDates(s.StartDate, s.EndDate)
		if s.Car != nil && s.StartDate != nil && s.EndDate != nil && s.DateError == "" {
			days := domain.DaysInclusive(*s.StartDate, *s.EndDate)
			s.TotalPrice = s.Car.PricePerDay * float64(days)
		} else {
			s.TotalPrice = 0
		}
		return s
	})
}

func (f *carDetail) validateDates(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}
	if start.After(*end) {
		return "Start date cannot be after end date"
	}
	if start.Before(domain.Day(f.now())) {
		return "Start date cannot be in the past"
	}
	return ""
}

func (f *carDetail) bookCar(ctx context.Context, st *CarDetailStore, userID string) {
	if !f.net.Connected() {
		st.Emit(ShowError{Message: "No internet connection. Check your network and try again."})
		return
	}

	snap := st.State()
	if snap.Car == nil || snap.StartDate == nil || snap.EndDate == nil {
		st.Emit(ShowError{Message: "Please select both start and end dates"})
		return
	}
	if msg := f.validateDates(snap.StartDate, snap.EndDate); msg != "" {
		st.Update(func(s CarDetailState) CarDetailState {
			s.DateError = msg
			return s
		})
		st.Emit(ShowError{Message: msg})
		return
	}

	carID := snap.Car.ID
	start, end := *snap.StartDate, *snap.EndDate

	st.Update(func(s CarDetailState) CarDetailState {
		s.BookingInProgress = true
		return s
	})

	go func() {
		booking, err := f.bookings.CreateBooking(ctx, userID, carID, start, end)
		st.Update(func(s CarDetailState) CarDetailState {
			if s.CarID != carID {
				return s // user moved on; drop the stale completion
			}
			s.BookingInProgress = false
			return s
		})
		if st.State().CarID != carID {
			return
		}
		if err != nil {
			st.Emit(ShowError{Message: bookingErrorMessage(err)})
			return
		}
		st.Emit(BookingSuccess{BookingID: booking.ID})
	}()
}

func bookingErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return "Start date cannot be after end date"
	case errors.Is(err, domain.ErrCarNotFound):
		return "This car is no longer available"
	case errors.Is(err, domain.ErrCarUnavailable):
		return "Car is not available for the selected dates"
	}
	return "Failed to book the car. Please try again."
}
