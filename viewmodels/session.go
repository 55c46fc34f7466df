package viewmodels

import (
	"context"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/session"
)

// SessionSource restores and ends sessions; *repositories.UserRepository implements it
type SessionSource interface {
	CurrentSession(ctx context.Context) (session.Session, error)
	Logout(ctx context.Context) error
}

// DisplayPreferences is the theme part of the session store
type DisplayPreferences interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
}

type SessionState struct {
	Session      session.Session
	DarkMode     bool
	Restored     bool
	ErrorMessage string
}

// SessionViewModel decides at start-up whether the user is still logged in
type SessionViewModel struct {
	holder[SessionState]
	sessions SessionSource
	display  DisplayPreferences
}

func NewSessionViewModel(sessions SessionSource, display DisplayPreferences) *SessionViewModel {
	return &SessionViewModel{holder: newHolder(SessionState{}), sessions: sessions, display: display}
}

// Restore loads the stored session and theme. Call it at start-up and after login.
func (vm *SessionViewModel) Restore(ctx context.Context) error {
	s, err := vm.sessions.CurrentSession(ctx)
	if err != nil {
		return vm.fail(err)
	}
	dark, err := vm.display.DarkMode(ctx)
	if err != nil {
		return vm.fail(err)
	}
	vm.st.Set(SessionState{Session: s, DarkMode: dark, Restored: true})
	return nil
}

func (vm *SessionViewModel) IsLoggedIn() bool {
	return vm.State().Session.IsLoggedIn
}

// Logout clears the stored session; the theme is kept
func (vm *SessionViewModel) Logout(ctx context.Context) error {
	if err := vm.sessions.Logout(ctx); err != nil {
		return vm.fail(err)
	}
	vm.st.Update(func(s SessionState) SessionState {
		s.Session = session.Session{}
		s.ErrorMessage = ""
		return s
	})
	return nil
}

func (vm *SessionViewModel) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := vm.display.SetDarkMode(ctx, enabled); err != nil {
		return vm.fail(err)
	}
	vm.st.Update(func(s SessionState) SessionState {
		s.DarkMode = enabled
		s.ErrorMessage = ""
		return s
	})
	return nil
}

func (vm *SessionViewModel) fail(err error) error {
	vm.st.Update(func(s SessionState) SessionState {
		s.ErrorMessage = err.Error()
		return s
	})
	return err
}
