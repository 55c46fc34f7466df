// Package viewmodels holds the per-screen state of the app. Each view model
// publishes an immutable state value through a state.Observable and changes it
// only in response to user actions.
package viewmodels

import (
	"errors"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/state"
)

var (
	// ErrInvalidForm is returned by Submit when a field still has an error
	ErrInvalidForm = errors.New("form has invalid fields")
	// ErrBusy is returned when a submission is already running
	ErrBusy = errors.New("submission already in progress")
	// ErrNoUser is returned by actions that need a watched user first
	ErrNoUser = errors.New("no user selected")
)

// holder gives every view model State and Subscribe over its observable
type holder[S any] struct {
	st *state.Observable[S]
}

func newHolder[S any](initial S) holder[S] {
	return holder[S]{st: state.NewObservable(initial)}
}

// State returns the current state
func (h holder[S]) State() S {
	return h.st.Get()
}

// Subscribe streams the current state and every later one
func (h holder[S]) Subscribe() (<-chan S, func()) {
	return h.st.Subscribe()
}
