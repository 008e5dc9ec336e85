package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the demo fleet if the catalog is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure baseline accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Cars
CREATE TABLE IF NOT EXISTS cars(
  id TEXT PRIMARY KEY,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  price_per_day NUMERIC NOT NULL CHECK (price_per_day > 0),
  description TEXT,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_cars_available ON cars(is_available);

-- Bookings: dates are calendar days as YYYY-MM-DD text, inclusive bounds
CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  car_id TEXT NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('PENDING','CONFIRMED','CANCELLED','COMPLETED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  CHECK (start_date <= end_date)
);
CREATE INDEX IF NOT EXISTS idx_bookings_car  ON bookings(car_id);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Preferences: injected key/value store (onboarding flag, cached token)
CREATE TABLE IF NOT EXISTS prefs(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM cars`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo fleet")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO cars(id,make,model,year,price_per_day,description,image_url) VALUES
	  ('car-camry',   'Toyota',        'Camry',   2023,  65.0, 'Comfortable family sedan with low fuel consumption',        'cars/camry/main.jpg'),
	  ('car-civic',   'Honda',         'Civic',   2022,  55.0, 'Compact car with great handling and economy',               'cars/civic/main.jpg'),
	  ('car-x5',      'BMW',           'X5',      2022, 120.0, 'Luxury sport SUV with advanced technology',                 'cars/x5/main.jpg'),
	  ('car-eclass',  'Mercedes-Benz', 'E-Class', 2023, 110.0, 'Elegant business sedan with a comfortable, quiet cabin',    'cars/eclass/main.jpg'),
	  ('car-q7',      'Audi',          'Q7',      2022, 115.0, 'Spacious premium SUV',                                      'cars/q7/main.jpg'),
	  ('car-golf',    'Volkswagen',    'Golf',    2023,  50.0, 'Economical and practical hatchback',                        'cars/golf/main.jpg'),
	  ('car-model3',  'Tesla',         'Model 3', 2023,  95.0, 'Fully electric sport sedan with impressive range',          'cars/model3/main.jpg')`)

	return tx.Commit()
}

// seedUsers ensures a demo renter and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Phone, Role, Hash string
	}
	mk := func(id, email, name, phone, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Phone: phone, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-demo", "demo@drivenext.test", "Demo Renter", "+10000000001", "USER", "Passw0rd!"),
		mk("u-admin", "admin@drivenext.test", "Admin", "+10000000000", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,phone,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Phone, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
