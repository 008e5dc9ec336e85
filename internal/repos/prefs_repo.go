package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kstobd/DriveNext/internal/domain"
)

// PrefsRepo is the session-scoped key/value store for flags and cached
// tokens. It is constructed once at startup and passed to whichever feature
// needs it; nothing reaches it through a global.
type PrefsRepo struct{ db *sqlx.DB }

func NewPrefsRepo(db *sqlx.DB) *PrefsRepo { return &PrefsRepo{db: db} }

const (
	keyOnboardingDone = "onboarding_completed"
	keyAccessToken    = "access_token"
)

func (r *PrefsRepo) get(key string) (string, bool, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM prefs WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read pref %s: %v", domain.ErrPersistence, key, err)
	}
	return v, true, nil
}

func (r *PrefsRepo) set(key, value string) error {
	_, err := r.db.Exec(`
	  INSERT INTO prefs(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: write pref %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

func (r *PrefsRepo) OnboardingCompleted() (bool, error) {
	v, ok, err := r.get(keyOnboardingDone)
	return ok && v == "true", err
}

func (r *PrefsRepo) SetOnboardingCompleted(done bool) error {
	v := "false"
	if done {
		v = "true"
	}
	return r.set(keyOnboardingDone, v)
}

// AccessToken returns the cached token, or "" when none is stored.
func (r *PrefsRepo) AccessToken() (string, error) {
	v, _, err := r.get(keyAccessToken)
	return v, err
}

func (r *PrefsRepo) SaveAccessToken(token string) error {
	return r.set(keyAccessToken, token)
}

func (r *PrefsRepo) ClearAccessToken() error {
	_, err := r.db.Exec(`DELETE FROM prefs WHERE key = ?`, keyAccessToken)
	if err != nil {
		return fmt.Errorf("%w: clear token: %v", domain.ErrPersistence, err)
	}
	return nil
}
