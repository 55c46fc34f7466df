package viewmodels

import (
	"context"
	"fmt"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
)

// RolePreferences is the part of the session store the role screen uses
type RolePreferences interface {
	SelectedRole(ctx context.Context) (models.Role, error)
	SetSelectedRole(ctx context.Context, role models.Role) error
	IsFirstRun(ctx context.Context) (bool, error)
	MarkFirstRunDone(ctx context.Context) error
}

type RoleState struct {
	// Selected is "" until a role is picked
	Selected     models.Role
	FirstRun     bool
	Loaded       bool
	ErrorMessage string
}

// RoleViewModel drives onboarding and the role picker. Both values survive restarts.
type RoleViewModel struct {
	holder[RoleState]
	prefs RolePreferences
}

func NewRoleViewModel(prefs RolePreferences) *RoleViewModel {
	return &RoleViewModel{holder: newHolder(RoleState{FirstRun: true}), prefs: prefs}
}

// Load reads the persisted role and first-run flag
func (vm *RoleViewModel) Load(ctx context.Context) error {
	role, err := vm.prefs.SelectedRole(ctx)
	if err != nil {
		return vm.fail(err)
	}
	firstRun, err := vm.prefs.IsFirstRun(ctx)
	if err != nil {
		return vm.fail(err)
	}
	vm.st.Set(RoleState{Selected: role, FirstRun: firstRun, Loaded: true})
	return nil
}

func (vm *RoleViewModel) Select(ctx context.Context, role models.Role) error {
	if !role.Valid() {
		return vm.fail(fmt.Errorf("rol desconocido %q", role))
	}
	if err := vm.prefs.SetSelectedRole(ctx, role); err != nil {
		return vm.fail(err)
	}
	vm.st.Update(func(s RoleState) RoleState {
		s.Selected = role
		s.ErrorMessage = ""
		return s
	})
	return nil
}

// FinishOnboarding records that the welcome screens were shown
func (vm *RoleViewModel) FinishOnboarding(ctx context.Context) error {
	if err := vm.prefs.MarkFirstRunDone(ctx); err != nil {
		return vm.fail(err)
	}
	vm.st.Update(func(s RoleState) RoleState {
		s.FirstRun = false
		s.ErrorMessage = ""
		return s
	})
	return nil
}

func (vm *RoleViewModel) fail(err error) error {
	vm.st.Update(func(s RoleState) RoleState {
		s.ErrorMessage = err.Error()
		return s
	})
	return err
}
