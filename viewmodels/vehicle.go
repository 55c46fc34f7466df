package viewmodels

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

// VehicleSource is the shared vehicle list; *repositories.VehicleRepository implements it
type VehicleSource interface {
	Observe(ctx context.Context, userID int64) (<-chan []models.Vehicle, func())
	Refresh(ctx context.Context, userID int64) ([]models.Vehicle, error)
	Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	Delete(ctx context.Context, userID, vehicleID int64) error
	SetDefault(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error)
}

// VehicleForm is the add/edit vehicle form as typed
type VehicleForm struct {
	Brand     string
	Model     string
	Year      string
	Plate     string
	Color     string
	IsDefault bool
}

type VehicleFormErrors struct {
	Brand string
	Model string
	Year  string
	Plate string
}

func (e VehicleFormErrors) Empty() bool {
	return e == VehicleFormErrors{}
}

func (f VehicleForm) validate() VehicleFormErrors {
	return VehicleFormErrors{
		Brand: utils.ValidateRequired(f.Brand, "marca"),
		Model: utils.ValidateRequired(f.Model, "modelo"),
		Year:  utils.ValidateYear(f.Year),
		Plate: utils.ValidatePlate(f.Plate),
	}
}

// vehicle converts a validated form
func (f VehicleForm) vehicle(userID int64) models.Vehicle {
	year, _ := strconv.Atoi(strings.TrimSpace(f.Year))
	return models.Vehicle{
		UserID:    userID,
		Brand:     strings.TrimSpace(f.Brand),
		Model:     strings.TrimSpace(f.Model),
		Year:      year,
		Plate:     utils.NormalizePlate(f.Plate),
		Color:     strings.TrimSpace(f.Color),
		IsDefault: f.IsDefault,
	}
}

type VehicleState struct {
	UserID       int64
	Vehicles     []models.Vehicle
	Loading      bool
	FormErrors   VehicleFormErrors
	ErrorMessage string
}

// Default returns the default vehicle, if any
func (s VehicleState) Default() *models.Vehicle {
	for i := range s.Vehicles {
		if s.Vehicles[i].IsDefault {
			v := s.Vehicles[i]
			return &v
		}
	}
	return nil
}

// VehicleViewModel mirrors the repository's shared list for one user. It
// holds no list of its own: every change made here comes back through the
// subscription.
type VehicleViewModel struct {
	holder[VehicleState]
	vehicles VehicleSource

	mu     sync.Mutex
	cancel func()
	done   chan struct{}
}

func NewVehicleViewModel(vehicles VehicleSource) *VehicleViewModel {
	return &VehicleViewModel{holder: newHolder(VehicleState{Vehicles: []models.Vehicle{}}), vehicles: vehicles}
}

// Watch switches the view model to userID's list
func (vm *VehicleViewModel) Watch(ctx context.Context, userID int64) {
	vm.stop()

	ch, cancel := vm.vehicles.Observe(ctx, userID)
	done := make(chan struct{})

	vm.mu.Lock()
	vm.cancel, vm.done = cancel, done
	vm.mu.Unlock()

	vm.st.Set(VehicleState{UserID: userID, Vehicles: []models.Vehicle{}})

	go func() {
		defer close(done)
		for list := range ch {
			vm.st.Update(func(s VehicleState) VehicleState {
				s.Vehicles = list
				return s
			})
		}
	}()
}

// Refresh refetches the watched list
func (vm *VehicleViewModel) Refresh(ctx context.Context) error {
	userID, err := vm.userID()
	if err != nil {
		return err
	}
	vm.setLoading(true)
	_, err = vm.vehicles.Refresh(ctx, userID)
	vm.finish(err)
	return err
}

// Add validates form and creates the vehicle for the watched user
func (vm *VehicleViewModel) Add(ctx context.Context, form VehicleForm) (*models.Vehicle, error) {
	userID, err := vm.userID()
	if err != nil {
		return nil, err
	}
	if !vm.checkForm(form) {
		return nil, ErrInvalidForm
	}
	created, err := vm.vehicles.Create(ctx, form.vehicle(userID))
	vm.finish(err)
	return created, err
}

// Edit validates form and saves it over vehicle id
func (vm *VehicleViewModel) Edit(ctx context.Context, id int64, form VehicleForm) (*models.Vehicle, error) {
	userID, err := vm.userID()
	if err != nil {
		return nil, err
	}
	if !vm.checkForm(form) {
		return nil, ErrInvalidForm
	}
	v := form.vehicle(userID)
	v.ID = id
	updated, err := vm.vehicles.Update(ctx, v)
	vm.finish(err)
	return updated, err
}

func (vm *VehicleViewModel) Delete(ctx context.Context, id int64) error {
	userID, err := vm.userID()
	if err != nil {
		return err
	}
	err = vm.vehicles.Delete(ctx, userID, id)
	vm.finish(err)
	return err
}

func (vm *VehicleViewModel) SetDefault(ctx context.Context, id int64) error {
	userID, err := vm.userID()
	if err != nil {
		return err
	}
	vm.setLoading(true)
	_, err = vm.vehicles.SetDefault(ctx, userID, id)
	vm.finish(err)
	return err
}

// Close ends the subscription and waits for the mirror goroutine
func (vm *VehicleViewModel) Close() {
	vm.stop()
}

func (vm *VehicleViewModel) stop() {
	vm.mu.Lock()
	cancel, done := vm.cancel, vm.done
	vm.cancel, vm.done = nil, nil
	vm.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (vm *VehicleViewModel) userID() (int64, error) {
	if id := vm.State().UserID; id != 0 {
		return id, nil
	}
	return 0, ErrNoUser
}

func (vm *VehicleViewModel) checkForm(form VehicleForm) bool {
	errs := form.validate()
	vm.st.Update(func(s VehicleState) VehicleState {
		s.FormErrors = errs
		return s
	})
	return errs.Empty()
}

func (vm *VehicleViewModel) setLoading(loading bool) {
	vm.st.Update(func(s VehicleState) VehicleState {
		s.Loading = loading
		return s
	})
}

func (vm *VehicleViewModel) finish(err error) {
	vm.st.Update(func(s VehicleState) VehicleState {
		s.Loading = false
		s.ErrorMessage = services.Message(err)
		return s
	})
}
