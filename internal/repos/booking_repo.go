package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kstobd/DriveNext/internal/domain"
)

// BookingRepo owns the reservation ledger.
type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// bookingRow is the storage shape: dates and status are TEXT and go through
// the domain mappers on the way out, so an unrecognized status fails loudly
// instead of leaking into callers.
type bookingRow struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	CarID      string  `db:"car_id"`
	StartDate  string  `db:"start_date"`
	EndDate    string  `db:"end_date"`
	TotalPrice float64 `db:"total_price"`
	Status     string  `db:"status"`
	CreatedAt  string  `db:"created_at"`
}

func (row bookingRow) toDomain() (domain.Booking, error) {
	status, err := domain.ParseBookingStatus(row.Status)
	if err != nil {
		return domain.Booking{}, err
	}
	start, err := domain.ParseDate(row.StartDate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: bad start_date %q: %v", domain.ErrPersistence, row.StartDate, err)
	}
	end, err := domain.ParseDate(row.EndDate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: bad end_date %q: %v", domain.ErrPersistence, row.EndDate, err)
	}
	return domain.Booking{
		ID:         row.ID,
		UserID:     row.UserID,
		CarID:      row.CarID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: row.TotalPrice,
		Status:     status,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func rowsToDomain(rows []bookingRow) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

const bookingColumns = `id, user_id, car_id, start_date, end_date, total_price, status, created_at`

func (r *BookingRepo) Get(id string) (domain.Booking, error) {
	var row bookingRow
	err := r.db.Get(&row, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: get booking: %v", domain.ErrPersistence, err)
	}
	return row.toDomain()
}

// Overlapping counts Pending/Confirmed bookings for a car whose inclusive
// day range intersects [start, end]. Two ranges overlap iff
// s1 <= e2 AND s2 <= e1; lexicographic compare works because the dates are
// stored as YYYY-MM-DD.
func (r *BookingRepo) Overlapping(carID string, start, end time.Time) (int, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM bookings
	  WHERE car_id = ?
	    AND status IN ('PENDING','CONFIRMED')
	    AND start_date <= ? AND ? <= end_date
	`, carID, end.Format(domain.DateLayout), start.Format(domain.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("%w: overlap query: %v", domain.ErrPersistence, err)
	}
	return n, nil
}

func (r *BookingRepo) Insert(b domain.Booking) error {
	_, err := r.db.Exec(`
	  INSERT INTO bookings(id, user_id, car_id, start_date, end_date, total_price, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, b.ID, b.UserID, b.CarID,
		b.StartDate.Format(domain.DateLayout), b.EndDate.Format(domain.DateLayout),
		b.TotalPrice, string(b.Status))
	if err != nil {
		return fmt.Errorf("%w: insert booking: %v", domain.ErrPersistence, err)
	}
	return nil
}

// InsertIfFree re-runs the overlap check and inserts in one immediate
// transaction, so two concurrent reservation attempts for the same car
// cannot both land. The loser gets ErrCarUnavailable.
func (r *BookingRepo) InsertIfFree(b domain.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	startStr := b.StartDate.Format(domain.DateLayout)
	endStr := b.EndDate.Format(domain.DateLayout)

	var n int
	if err := tx.Get(&n, `
	  SELECT COUNT(*) FROM bookings
	  WHERE car_id = ?
	    AND status IN ('PENDING','CONFIRMED')
	    AND start_date <= ? AND ? <= end_date
	`, b.CarID, endStr, startStr); err != nil {
		return fmt.Errorf("%w: overlap re-check: %v", domain.ErrPersistence, err)
	}
	if n > 0 {
		return domain.ErrCarUnavailable
	}

	if _, err := tx.Exec(`
	  INSERT INTO bookings(id, user_id, car_id, start_date, end_date, total_price, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, b.ID, b.UserID, b.CarID, startStr, endStr, b.TotalPrice, string(b.Status)); err != nil {
		return fmt.Errorf("%w: insert booking: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *BookingRepo) ListByUser(userID string) ([]domain.Booking, error) {
	var rows []bookingRow
	err := r.db.Select(&rows, `
	  SELECT `+bookingColumns+` FROM bookings
	  WHERE user_id = ?
	  ORDER BY start_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings by user: %v", domain.ErrPersistence, err)
	}
	return rowsToDomain(rows)
}

func (r *BookingRepo) ListByCar(carID string) ([]domain.Booking, error) {
	var rows []bookingRow
	err := r.db.Select(&rows, `
	  SELECT `+bookingColumns+` FROM bookings
	  WHERE car_id = ?
	  ORDER BY start_date
	`, carID)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings by car: %v", domain.ErrPersistence, err)
	}
	return rowsToDomain(rows)
}

func (r *BookingRepo) ListLatest(limit int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []bookingRow
	err := r.db.Select(&rows, `
	  SELECT `+bookingColumns+` FROM bookings
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list latest bookings: %v", domain.ErrPersistence, err)
	}
	return rowsToDomain(rows)
}

func (r *BookingRepo) UpdateStatus(id string, status domain.BookingStatus) error {
	res, err := r.db.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("%w: update booking status: %v", domain.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// CompleteFinished flips Confirmed bookings whose end date has passed to
// Completed. Returns how many rows changed.
func (r *BookingRepo) CompleteFinished(today time.Time) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE bookings SET status = 'COMPLETED'
	  WHERE status = 'CONFIRMED' AND end_date < ?
	`, today.Format(domain.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("%w: complete finished: %v", domain.ErrPersistence, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CancelStalePending cancels Pending bookings created before cutoff that
// were never confirmed, releasing their dates.
func (r *BookingRepo) CancelStalePending(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE bookings SET status = 'CANCELLED'
	  WHERE status = 'PENDING' AND datetime(created_at) < datetime(?)
	`, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("%w: cancel stale pending: %v", domain.ErrPersistence, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
