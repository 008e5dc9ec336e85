package features_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/kstobd/DriveNext/internal/connectivity"
	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/features"
	"github.com/kstobd/DriveNext/internal/repos"
	"github.com/kstobd/DriveNext/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE cars(id TEXT PRIMARY KEY, make TEXT, model TEXT, year INTEGER,
	  price_per_day NUMERIC, description TEXT, image_url TEXT, is_available INTEGER,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, phone TEXT,
	  password_hash TEXT, role TEXT, created_at TEXT);
	CREATE TABLE bookings(id TEXT PRIMARY KEY, user_id TEXT, car_id TEXT,
	  start_date TEXT, end_date TEXT, total_price NUMERIC, status TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO cars(id,make,model,year,price_per_day,description,image_url,is_available)
	  VALUES ('car-42','Toyota','Camry',2023,50.0,'Sedan','',1);
	INSERT INTO users(id,email,name,phone,password_hash,role)
	  VALUES ('u-1','one@test','Renter One','','x','USER');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newStores(t *testing.T, net connectivity.Signal) *features.CarDetailStore {
	t.Helper()
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewCarRepo(db))
	bookings := services.NewBookingService(repos.NewCarRepo(db), repos.NewBookingRepo(db))
	return features.NewCarDetail(catalog, bookings, net)
}

func waitState(t *testing.T, st *features.CarDetailStore, cond func(features.CarDetailState) bool) features.CarDetailState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := st.State(); cond(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state condition not reached; last state %+v", st.State())
	return features.CarDetailState{}
}

func waitEffect(t *testing.T, st *features.CarDetailStore) features.CarDetailEffect {
	t.Helper()
	select {
	case eff := <-st.Effects():
		return eff
	case <-time.After(2 * time.Second):
		t.Fatal("no effect emitted")
		return nil
	}
}

func futureDay(offset int) time.Time {
	return domain.Day(time.Now().UTC()).AddDate(0, 0, offset)
}

func TestCarDetailBookingFlow(t *testing.T) {
	st := newStores(t, connectivity.Static(true))
	ctx := context.Background()

	st.Dispatch(ctx, features.LoadCar{CarID: "car-42"})
	loaded := waitState(t, st, func(s features.CarDetailState) bool {
		return !s.Loading && s.Car != nil
	})
	if loaded.Car.Make != "Toyota" {
		t.Fatalf("loaded wrong car: %+v", loaded.Car)
	}

	// Selecting both dates yields a live price preview.
	st.Dispatch(ctx, features.StartDateSelected{Date: futureDay(10)})
	st.Dispatch(ctx, features.EndDateSelected{Date: futureDay(12)})
	s := st.State()
	if s.DateError != "" {
		t.Fatalf("unexpected date error %q", s.DateError)
	}
	if s.TotalPrice != 150.0 {
		t.Fatalf("want live quote 150.0 (3 days x 50), got %v", s.TotalPrice)
	}

	st.Dispatch(ctx, features.BookCar{UserID: "u-1"})
	eff := waitEffect(t, st)
	success, isSuccess := eff.(features.BookingSuccess)
	if !isSuccess || success.BookingID == "" {
		t.Fatalf("want BookingSuccess with id, got %#v", eff)
	}
	waitState(t, st, func(s features.CarDetailState) bool { return !s.BookingInProgress })
}

func TestCarDetailBookingRejectedOnOverlap(t *testing.T) {
	st := newStores(t, connectivity.Static(true))
	ctx := context.Background()

	st.Dispatch(ctx, features.LoadCar{CarID: "car-42"})
	waitState(t, st, func(s features.CarDetailState) bool { return s.Car != nil })

	st.Dispatch(ctx, features.StartDateSelected{Date: futureDay(10)})
	st.Dispatch(ctx, features.EndDateSelected{Date: futureDay(12)})
	st.Dispatch(ctx, features.BookCar{UserID: "u-1"})
	if _, isSuccess := waitEffect(t, st).(features.BookingSuccess); !isSuccess {
		t.Fatal("first booking should succeed")
	}

	// Same dates again: the ledger rejects the overlap.
	st.Dispatch(ctx, features.BookCar{UserID: "u-1"})
	eff := waitEffect(t, st)
	showErr, isErr := eff.(features.ShowError)
	if !isErr {
		t.Fatalf("want ShowError, got %#v", eff)
	}
	if showErr.Message != "Car is not available for the selected dates" {
		t.Fatalf("unexpected message %q", showErr.Message)
	}
}

func TestCarDetailValidation(t *testing.T) {
	st := newStores(t, connectivity.Static(true))
	ctx := context.Background()

	st.Dispatch(ctx, features.LoadCar{CarID: "car-42"})
	waitState(t, st, func(s features.CarDetailState) bool { return s.Car != nil })

	// Booking without dates is refused before any service call.
	st.Dispatch(ctx, features.BookCar{UserID: "u-1"})
	if _, isErr := waitEffect(t, st).(features.ShowError); !isErr {
		t.Fatal("want ShowError for missing dates")
	}

	// Reversed range surfaces a date error and no quote.
	st.Dispatch(ctx, features.StartDateSelected{Date: futureDay(12)})
	st.Dispatch(ctx, features.EndDateSelected{Date: futureDay(10)})
	s := st.State()
	if s.DateError == "" || s.TotalPrice != 0 {
		t.Fatalf("want date error and zero quote, got %+v", s)
	}
}

func TestCarDetailStaleLoadFailureDropped(t *testing.T) {
	st := newStores(t, connectivity.Static(true))
	ctx := context.Background()

	// A doomed load immediately superseded by a good one: the failure's
	// effects belong to the old car id and must be discarded.
	st.Dispatch(ctx, features.LoadCar{CarID: "no-such-car"})
	st.Dispatch(ctx, features.LoadCar{CarID: "car-42"})

	loaded := waitState(t, st, func(s features.CarDetailState) bool {
		return !s.Loading && s.Car != nil
	})
	if loaded.CarID != "car-42" {
		t.Fatalf("current car should be car-42, got %q", loaded.CarID)
	}

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case eff := <-st.Effects():
			if _, isBack := eff.(features.NavigateBack); isBack {
				t.Fatal("stale failed load navigated away from the loaded car")
			}
		case <-deadline:
			return
		}
	}
}

func TestCarDetailOfflineGate(t *testing.T) {
	st := newStores(t, connectivity.Static(false))
	ctx := context.Background()

	st.Dispatch(ctx, features.BookCar{UserID: "u-1"})
	eff := waitEffect(t, st)
	if _, isErr := eff.(features.ShowError); !isErr {
		t.Fatalf("offline booking must fail fast, got %#v", eff)
	}
}
