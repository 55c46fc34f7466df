package viewmodels

import (
	"context"
	"testing"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRegisterForm(vm *RegisterViewModel, email string) {
	vm.SetName("Nuevo Usuario")
	vm.SetEmail(email)
	vm.SetPhone("912345678")
	vm.SetPassword("Segura#2024")
	vm.SetConfirmation("Segura#2024")
}

func TestRegisterViewModel_FieldErrors(t *testing.T) {
	vm := NewRegisterViewModel(newFakeUsers(), models.RoleClient)

	vm.SetName("R2")
	assert.Equal(t, "El nombre no debe contener números", vm.State().NameError)
	vm.SetPhone("12ab")
	assert.Equal(t, "El teléfono solo debe contener números", vm.State().PhoneError)
	vm.SetPassword("segura#2024")
	assert.Equal(t, "Debe incluir al menos una letra mayúscula", vm.State().PasswordError)
	vm.SetConfirmation("otra")
	assert.Equal(t, "Las contraseñas no coinciden", vm.State().ConfirmationError)

	vm.SetPassword("otra")
	assert.Empty(t, vm.State().ConfirmationError, "confirmation is rechecked when the password changes")
	assert.False(t, vm.State().CanSubmit())

	fillRegisterForm(vm, "new@email.com")
	assert.True(t, vm.State().CanSubmit())
}

func TestRegisterViewModel_SubmitLogsIn(t *testing.T) {
	users := newFakeUsers()
	vm := NewRegisterViewModel(users, models.RoleMechanic)
	fillRegisterForm(vm, "new@email.com")

	require.NoError(t, vm.Submit(context.Background()))

	s := vm.State()
	require.NotNil(t, s.User)
	assert.NotZero(t, s.User.ID)
	assert.Equal(t, models.RoleMechanic, s.User.Role)
	assert.Empty(t, s.Password)
	assert.Empty(t, s.Confirmation)
	assert.True(t, vm.ConsumeSuccess())
	assert.False(t, vm.ConsumeSuccess())

	again := NewRegisterViewModel(users, models.RoleClient)
	fillRegisterForm(again, "new@email.com")
	require.Error(t, again.Submit(context.Background()))
	assert.Equal(t, "El correo ya está registrado", again.State().ErrorMessage)
}

func TestRegisterViewModel_SubmitValidatesUntouchedFields(t *testing.T) {
	vm := NewRegisterViewModel(newFakeUsers(), models.RoleClient)
	vm.SetEmail("new@email.com")

	assert.ErrorIs(t, vm.Submit(context.Background()), ErrInvalidForm)
	s := vm.State()
	assert.Equal(t, "El nombre es obligatorio", s.NameError)
	assert.Equal(t, "El teléfono es obligatorio", s.PhoneError)
	assert.Equal(t, "La contraseña es obligatoria", s.PasswordError)
	assert.Equal(t, "Confirma tu contraseña", s.ConfirmationError)
}

func TestRegisterViewModel_Role(t *testing.T) {
	vm := NewRegisterViewModel(newFakeUsers(), "")
	assert.Equal(t, models.RoleClient, vm.State().Role)

	vm.SetRole(models.RoleAdmin)
	assert.Equal(t, models.RoleAdmin, vm.State().Role)

	vm.SetRole("ROOT")
	assert.Equal(t, models.RoleAdmin, vm.State().Role)
}
