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

type LoginState struct {
	Email         string
	Password      string
	EmailError    string
	PasswordError string
	Loading       bool
}

type LoginEvent interface{ isLoginEvent() }

type EmailChanged struct{ Value string }
type PasswordChanged struct{ Value string }
type SubmitLogin struct{}

func (EmailChanged) isLoginEvent()    {}
func (PasswordChanged) isLoginEvent() {}
func (SubmitLogin) isLoginEvent()     {}

type LoginEffect interface{ isLoginEffect() }

type LoginSucceeded struct{ UserID string }
type LoginFailed struct{ Message string }

func (LoginSucceeded) isLoginEffect() {}
func (LoginFailed) isLoginEffect()    {}

type LoginStore = flow.Store[LoginState, LoginEvent, LoginEffect]

type login struct {
	auth  *services.AuthService
	prefs *repos.PrefsRepo
}

func NewLogin(auth *services.AuthService, prefs *repos.PrefsRepo) *LoginStore {
	f := &login{auth: auth, prefs: prefs}
	return flow.New(LoginState{}, f.handle)
}

func (f *login) handle(ctx context.Context, st *LoginStore, ev LoginEvent) {
	switch e := ev.(type) {
	case EmailChanged:
		st.Update(func(s LoginState) LoginState {
			s.Email = e.Value
			s.EmailError = ""
			return s
		})
	case PasswordChanged:
		st.Update(func(s LoginState) LoginState {
			s.Password = e.Value
			s.PasswordError = ""
			return s
		})
	case SubmitLogin:
		f.submit(st)
	}
}

func (f *login) submit(st *LoginStore) {
	snap := st.State()

	if _, ok := validate.Email(snap.Email); !ok {
		st.Update(func(s LoginState) LoginState {
			s.EmailError = "Enter a valid email address"
			return s
		})
		return
	}
	if snap.Password == "" {
		st.Update(func(s LoginState) LoginState {
			s.PasswordError = "Password is required"
			return s
		})
		return
	}

	st.Update(func(s LoginState) LoginState {
		s.Loading = true
		return s
	})

	go func() {
		user, token, err := f.auth.Login(snap.Email, snap.Password)
		st.Update(func(s LoginState) LoginState {
			s.Loading = false
			return s
		})
		if err != nil {
			msg := "Login failed. Please try again."
			if errors.Is(err, domain.ErrBadCreds) {
				msg = "Invalid email or password"
			}
			st.Emit(LoginFailed{Message: msg})
			return
		}
		// Best effort: a missing cached token only costs a re-login.
		_ = f.prefs.SaveAccessToken(token)
		st.Emit(LoginSucceeded{UserID: user.ID})
	}()
}
