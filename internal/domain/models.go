package domain

import "time"

type Car struct {
	ID          string  `db:"id" json:"id"`
	Make        string  `db:"make" json:"make"`
	Model       string  `db:"model" json:"model"`
	Year        int     `db:"year" json:"year"`
	PricePerDay float64 `db:"price_per_day" json:"price_per_day"`
	Description string  `db:"description" json:"description"`
	ImageURL    string  `db:"image_url" json:"image_url"`
	IsAvailable bool    `db:"is_available" json:"is_available"`
	CreatedAt   string  `db:"created_at" json:"-"`
	UpdatedAt   string  `db:"updated_at" json:"-"`
}

type Booking struct {
	ID         string        `db:"id" json:"id"`
	UserID     string        `db:"user_id" json:"user_id"`
	CarID      string        `db:"car_id" json:"car_id"`
	StartDate  time.Time     `db:"-" json:"start_date"`
	EndDate    time.Time     `db:"-" json:"end_date"`
	TotalPrice float64       `db:"total_price" json:"total_price"`
	Status     BookingStatus `db:"-" json:"status"`
	CreatedAt  string        `db:"created_at" json:"-"`
}

// Quote is a price preview for a car over a candidate date range.
type Quote struct {
	CarID string  `json:"car_id"`
	Days  int     `json:"days"`
	Total float64 `json:"total"`
}

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
}
