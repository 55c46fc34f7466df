package viewmodels

import (
	"context"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

const passwordRequired = "La contraseña es obligatoria"

// Authenticator logs a user in; *repositories.UserRepository implements it
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type LoginState struct {
	Email    string
	Password string

	EmailError    string
	PasswordError string

	IsSubmitting bool
	// Success stays set until ConsumeSuccess is called
	Success      bool
	User         *models.User
	ErrorMessage string
}

// CanSubmit reports whether the form is complete and error free
func (s LoginState) CanSubmit() bool {
	return strings.TrimSpace(s.Email) != "" && s.Password != "" &&
		s.EmailError == "" && s.PasswordError == "" &&
		!s.IsSubmitting
}

type LoginViewModel struct {
	holder[LoginState]
	users Authenticator
}

func NewLoginViewModel(users Authenticator) *LoginViewModel {
	return &LoginViewModel{holder: newHolder(LoginState{}), users: users}
}

func (vm *LoginViewModel) SetEmail(email string) {
	vm.st.Update(func(s LoginState) LoginState {
		s.Email = email
		s.EmailError = utils.ValidateEmail(email)
		s.ErrorMessage = ""
		return s
	})
}

func (vm *LoginViewModel) SetPassword(password string) {
	vm.st.Update(func(s LoginState) LoginState {
		s.Password = password
		s.PasswordError = ""
		if password == "" {
			s.PasswordError = passwordRequired
		}
		s.ErrorMessage = ""
		return s
	})
}

// Submit validates every field and logs in. The password is dropped from the
// state once the call returns, whatever the outcome.
func (vm *LoginViewModel) Submit(ctx context.Context) error {
	var startErr error
	form := vm.st.Update(func(s LoginState) LoginState {
		if s.IsSubmitting {
			startErr = ErrBusy
			return s
		}
		s.EmailError = utils.ValidateEmail(s.Email)
		if s.Password == "" {
			s.PasswordError = passwordRequired
		}
		if !s.CanSubmit() {
			startErr = ErrInvalidForm
			return s
		}
		s.IsSubmitting = true
		s.ErrorMessage = ""
		return s
	})
	if startErr != nil {
		return startErr
	}

	user, err := vm.users.Login(ctx, strings.TrimSpace(form.Email), form.Password)

	vm.st.Update(func(s LoginState) LoginState {
		s.IsSubmitting = false
		s.Password = ""
		if err != nil {
			s.ErrorMessage = services.Message(err)
			return s
		}
		s.Success = true
		s.User = user
		return s
	})
	return err
}

// ConsumeSuccess reports a pending success once and clears it
func (vm *LoginViewModel) ConsumeSuccess() bool {
	consumed := false
	vm.st.Update(func(s LoginState) LoginState {
		consumed = s.Success
		s.Success = false
		return s
	})
	return consumed
}
