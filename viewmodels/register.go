package viewmodels

import (
	"context"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/repositories"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

// Registrar creates accounts; *repositories.UserRepository implements it
type Registrar interface {
	Register(ctx context.Context, in repositories.RegisterInput) (*models.User, error)
}

type RegisterState struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	Confirmation string
	Role         models.Role

	NameError         string
	EmailError        string
	PhoneError        string
	PasswordError     string
	ConfirmationError string

	IsSubmitting bool
	Success      bool
	User         *models.User
	ErrorMessage string
}

func (s RegisterState) CanSubmit() bool {
	filled := strings.TrimSpace(s.Name) != "" && strings.TrimSpace(s.Email) != "" &&
		strings.TrimSpace(s.Phone) != "" && s.Password != "" && s.Confirmation != ""
	clean := s.NameError == "" && s.EmailError == "" && s.PhoneError == "" &&
		s.PasswordError == "" && s.ConfirmationError == ""
	return filled && clean && !s.IsSubmitting
}

func (s RegisterState) validate() RegisterState {
	s.NameError = utils.ValidateName(s.Name)
	s.EmailError = utils.ValidateEmail(s.Email)
	s.PhoneError = utils.ValidatePhone(s.Phone)
	s.PasswordError = utils.ValidateStrongPassword(s.Password)
	s.ConfirmationError = utils.ValidatePasswordConfirmation(s.Password, s.Confirmation)
	return s
}

type RegisterViewModel struct {
	holder[RegisterState]
	users Registrar
}

// NewRegisterViewModel starts with role, usually the one picked on the role screen
func NewRegisterViewModel(users Registrar, role models.Role) *RegisterViewModel {
	if !role.Valid() {
		role = models.RoleClient
	}
	return &RegisterViewModel{holder: newHolder(RegisterState{Role: role}), users: users}
}

func (vm *RegisterViewModel) edit(fn func(*RegisterState)) {
	vm.st.Update(func(s RegisterState) RegisterState {
		fn(&s)
		s.ErrorMessage = ""
		return s
	})
}

func (vm *RegisterViewModel) SetName(name string) {
	vm.edit(func(s *RegisterState) {
		s.Name = name
		s.NameError = utils.ValidateName(name)
	})
}

func (vm *RegisterViewModel) SetEmail(email string) {
	vm.edit(func(s *RegisterState) {
		s.Email = email
		s.EmailError = utils.ValidateEmail(email)
	})
}

func (vm *RegisterViewModel) SetPhone(phone string) {
	vm.edit(func(s *RegisterState) {
		s.Phone = phone
		s.PhoneError = utils.ValidatePhone(phone)
	})
}

// SetPassword also rechecks the confirmation once one has been typed
func (vm *RegisterViewModel) SetPassword(password string) {
	vm.edit(func(s *RegisterState) {
		s.Password = password
		s.PasswordError = utils.ValidateStrongPassword(password)
		if s.Confirmation != "" {
			s.ConfirmationError = utils.ValidatePasswordConfirmation(password, s.Confirmation)
		}
	})
}

func (vm *RegisterViewModel) SetConfirmation(confirmation string) {
	vm.edit(func(s *RegisterState) {
		s.Confirmation = confirmation
		s.ConfirmationError = utils.ValidatePasswordConfirmation(s.Password, confirmation)
	})
}

func (vm *RegisterViewModel) SetRole(role models.Role) {
	if !role.Valid() {
		return
	}
	vm.edit(func(s *RegisterState) { s.Role = role })
}

// Submit registers the account, which also logs into it
func (vm *RegisterViewModel) Submit(ctx context.Context) error {
	var startErr error
	form := vm.st.Update(func(s RegisterState) RegisterState {
		if s.IsSubmitting {
			startErr = ErrBusy
			return s
		}
		s = s.validate()
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

	user, err := vm.users.Register(ctx, repositories.RegisterInput{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
		Password: form.Password,
		Role:     form.Role,
	})

	vm.st.Update(func(s RegisterState) RegisterState {
		s.IsSubmitting = false
		if err != nil {
			s.ErrorMessage = services.Message(err)
			return s
		}
		s.Password, s.Confirmation = "", ""
		s.Success = true
		s.User = user
		return s
	})
	return err
}

func (vm *RegisterViewModel) ConsumeSuccess() bool {
	consumed := false
	vm.st.Update(func(s RegisterState) RegisterState {
		consumed = s.Success
		s.Success = false
		return s
	})
	return consumed
}
