package features

import (
	"context"
	"errors"

	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/flow"
	"github.com/kstobd/DriveNext/internal/repos"
	"github.com/kstobd/DriveNext/internal/services"
	"github.com/kstobd/DriveNext/internal/validate"
)

type RegisterState struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	NameError     string
	EmailError    string
	PasswordError string
	Loading       bool
}

type RegisterEvent interface{ isRegisterEvent() }

type RegisterFieldChanged struct {
	Field string // name | email | phone | password
	Value string
}
type SubmitRegister struct{}

func (RegisterFieldChanged) isRegisterEvent() {}
func (SubmitRegister) isRegisterEvent()       {}

type RegisterEffect interface{ isRegisterEffect() }

type RegisterSucceeded struct{ UserID string }
type RegisterFailed struct{ Message string }

func (RegisterSucceeded) isRegisterEffect() {}
func (RegisterFailed) isRegisterEffect()    {}

type RegisterStore = flow.Store[RegisterState, RegisterEvent, RegisterEffect]

type register struct {
	auth  *services.AuthService
	prefs *repos.PrefsRepo
}

func NewRegister(auth *services.AuthService, prefs *repos.PrefsRepo) *RegisterStore {
	f := &register{auth: auth, prefs: prefs}
	return flow.New(RegisterState{}, f.handle)
}

func (f *register) handle(ctx context.Context, st *RegisterStore, ev RegisterEvent) {
	switch e := ev.(type) {
	case RegisterFieldChanged:
		st.Update(func(s RegisterState) RegisterState {
			switch e.Field {
			case "name":
				s.Name, s.NameError = e.Value, ""
			case "email":
				s.Email, s.EmailError = e.Value, ""
			case "phone":
				s.Phone = e.Value
			case "password":
				s.Password, s.PasswordError = e.Value, ""
			}
			return s
		})
	case SubmitRegister:
		f.submit(st)
	}
}

func (f *register) submit(st *RegisterStore) {
	snap := st.State()

	var nameErr, emailErr, passErr string
	if _, ok := validate.Name(snap.Name); !ok {
		nameErr = "Enter your name"
	}
	if _, ok := validate.Email(snap.Email); !ok {
		emailErr = "Enter a valid email address"
	}
	if !validate.Password(snap.Password) {
		passErr = "Password must be 8-20 characters with upper, lower, digit and symbol"
	}
	if nameErr != "" || emailErr != "" || passErr != "" {
		st.Update(func(s RegisterState) RegisterState {
			s.NameError, s.EmailError, s.PasswordError = nameErr, emailErr, passErr
			return s
		})
		return
	}

	st.Update(func(s RegisterState) RegisterState {
		s.Loading = true
		return s
	})

	go func() {
		user, err := f.auth.Register(snap.Name, snap.Email, snap.Phone, snap.Password)
		st.Update(func(s RegisterState) RegisterState {
			s.Loading = false
			return s
		})
		if err != nil {
			msg := "Registration failed. Please try again."
			if errors.Is(err, domain.ErrEmailTaken) {
				msg = "A user with this email already exists"
			}
			st.Emit(RegisterFailed{Message: msg})
			return
		}
		// New accounts start signed in: issue a token and cache it the
		// same way the login flow does. Best effort either way.
		if token, terr := f.auth.IssueToken(user); terr == nil {
			_ = f.prefs.SaveAccessToken(token)
		}
		st.Emit(RegisterSucceeded{UserID: user.ID})
	}()
}
