package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kstobd/DriveNext/internal/domain"
)

type CarRepo struct{ db *sqlx.DB }

func NewCarRepo(db *sqlx.DB) *CarRepo { return &CarRepo{db: db} }

const carColumns = `
  id, make, model, year, price_per_day, description,
  COALESCE(image_url,'') AS image_url, is_available,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CarRepo) Get(id string) (domain.Car, error) {
	var c domain.Car
	err := r.db.Get(&c, `SELECT`+carColumns+` FROM cars WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Car{}, domain.ErrCarNotFound
	}
	if err != nil {
		return domain.Car{}, fmt.Errorf("%w: get car: %v", domain.ErrPersistence, err)
	}
	return c, nil
}

func (r *CarRepo) List() ([]domain.Car, error) {
	var out []domain.Car
	err := r.db.Select(&out, `SELECT`+carColumns+` FROM cars ORDER BY make, model`)
	if err != nil {
		return nil, fmt.Errorf("%w: list cars: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

// ListAvailable returns cars with the coarse availability flag set. It says
// nothing about date-based availability; that is the booking ledger's job.
func (r *CarRepo) ListAvailable() ([]domain.Car, error) {
	var out []domain.Car
	err := r.db.Select(&out, `SELECT`+carColumns+` FROM cars WHERE is_available = 1 ORDER BY make, model`)
	if err != nil {
		return nil, fmt.Errorf("%w: list available cars: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

func (r *CarRepo) Create(c domain.Car) error {
	_, err := r.db.Exec(`
	  INSERT INTO cars(id, make, model, year, price_per_day, description, image_url, is_available, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, c.ID, c.Make, c.Model, c.Year, c.PricePerDay, c.Description, c.ImageURL, c.IsAvailable)
	if err != nil {
		return fmt.Errorf("%w: create car: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *CarRepo) Update(c domain.Car) error {
	res, err := r.db.Exec(`
	  UPDATE cars
	  SET make=?, model=?, year=?, price_per_day=?, description=?, image_url=?, is_available=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, c.Make, c.Model, c.Year, c.PricePerDay, c.Description, c.ImageURL, c.IsAvailable, c.ID)
	if err != nil {
		return fmt.Errorf("%w: update car: %v", domain.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM cars WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete car: %v", domain.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}
