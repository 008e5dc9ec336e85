package features

import (
	"context"

	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/flow"
	"github.com/kstobd/DriveNext/internal/services"
)

type BookingListState struct {
	UserID   string
	Bookings flow.Result[[]domain.Booking]
}

type BookingListEvent interface{ isBookingListEvent() }

type LoadBookings struct{ UserID string }

func (LoadBookings) isBookingListEvent() {}

type BookingListEffect interface{ isBookingListEffect() }

type BookingListError struct{ Message string }

func (BookingListError) isBookingListEffect() {}

type BookingListStore = flow.Store[BookingListState, BookingListEvent, BookingListEffect]

type bookingList struct {
	bookings *services.BookingService
}

func NewBookingList(bookings *services.BookingService) *BookingListStore {
	f := &bookingList{bookings: bookings}
	return flow.New(BookingListState{Bookings: flow.Loading[[]domain.Booking]()}, f.handle)
}

func (f *bookingList) handle(ctx context.Context, st *BookingListStore, ev BookingListEvent) {
	e, ok := ev.(LoadBookings)
	if !ok {
		return
	}
	userID := e.UserID
	st.Update(func(s BookingListState) BookingListState {
		s.UserID = userID
		s.Bookings = flow.Loading[[]domain.Booking]()
		return s
	})
	go func() {
		list, err := f.bookings.ListUserBookings(userID)
		if err != nil {
			st.Update(func(s BookingListState) BookingListState {
				if s.UserID != userID {
					return s
				}
				s.Bookings = flow.Fail[[]domain.Booking](err)
				return s
			})
			st.Emit(BookingListError{Message: "Failed to load your bookings"})
			return
		}
		st.Update(func(s BookingListState) BookingListState {
			if s.UserID != userID {
				return s // a newer load superseded this one
			}
			s.Bookings = flow.Ok(list)
			return s
		})
	}()
}
