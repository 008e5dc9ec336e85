package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kstobd/DriveNext/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, name, COALESCE(phone,'') AS phone, password_hash, role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user by email: %v", domain.ErrPersistence, err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user by id: %v", domain.ErrPersistence, err)
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(id, email, name, phone, password_hash, role)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.Phone, u.Hash, u.Role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("%w: create user: %v", domain.ErrPersistence, err)
	}
	return nil
}
