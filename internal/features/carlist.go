package features

import (
	"context"

	"github.com/kstobd/DriveNext/internal/connectivity"
	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/flow"
	"github.com/kstobd/DriveNext/internal/services"
)

type CarListState struct {
	Cars flow.Result[[]domain.Car]
}

type CarListEvent interface{ isCarListEvent() }

type LoadCars struct{}
type RetryLoadCars struct{}

func (LoadCars) isCarListEvent()      {}
func (RetryLoadCars) isCarListEvent() {}

type CarListEffect interface{ isCarListEffect() }

type CarListError struct{ Message string }

func (CarListError) isCarListEffect() {}

type CarListStore = flow.Store[CarListState, CarListEvent, CarListEffect]

type carList struct {
	catalog *services.CatalogService
	net     connectivity.Signal
}

func NewCarList(catalog *services.CatalogService, net connectivity.Signal) *CarListStore {
	f := &carList{catalog: catalog, net: net}
	return flow.New(CarListState{Cars: flow.Loading[[]domain.Car]()}, f.handle)
}

func (f *carList) handle(ctx context.Context, st *CarListStore, ev CarListEvent) {
	switch ev.(type) {
	case LoadCars, RetryLoadCars:
		f.load(st)
	}
}

func (f *carList) load(st *CarListStore) {
	if !f.net.Connected() {
		st.Emit(CarListError{Message: "No internet connection"})
		return
	}
	st.Update(func(s CarListState) CarListState {
		s.Cars = flow.Loading[[]domain.Car]()
		return s
	})
	go func() {
		cars, err := f.catalog.ListAvailableCars()
		if err != nil {
			st.Update(func(s CarListState) CarListState {
				s.Cars = flow.Fail[[]domain.Car](err)
				return s
			})
			st.Emit(CarListError{Message: "Failed to load cars"})
			return
		}
		st.Update(func(s CarListState) CarListState {
			s.Cars = flow.Ok(cars)
			return s
		})
	}()
}
