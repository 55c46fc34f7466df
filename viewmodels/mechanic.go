package viewmodels

import (
	"context"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
)

// MechanicStore is implemented by *repositories.MechanicRepository
type MechanicStore interface {
	Create(ctx context.Context, m *models.Mechanic) error
	SaveRemote(ctx context.Context, user models.User) (*models.Mechanic, error)
	List(ctx context.Context) ([]models.Mechanic, error)
	ListAvailable(ctx context.Context) ([]models.Mechanic, error)
	Delete(ctx context.Context, id int64) error
	SetPreferred(ctx context.Context, id int64) error
}

type MechanicState struct {
	Mechanics     []models.Mechanic
	OnlyAvailable bool
	Loading       bool
	ErrorMessage  string
}

// Preferred returns the preferred mechanic, if any
func (s MechanicState) Preferred() *models.Mechanic {
	for i := range s.Mechanics {
		if s.Mechanics[i].IsPreferred {
			m := s.Mechanics[i]
			return &m
		}
	}
	return nil
}

type MechanicViewModel struct {
	holder[MechanicState]
	mechanics MechanicStore
}

func NewMechanicViewModel(mechanics MechanicStore) *MechanicViewModel {
	return &MechanicViewModel{holder: newHolder(MechanicState{Mechanics: []models.Mechanic{}}), mechanics: mechanics}
}

// Load lists saved mechanics, only the available ones when onlyAvailable is set
func (vm *MechanicViewModel) Load(ctx context.Context, onlyAvailable bool) error {
	vm.st.Update(func(s MechanicState) MechanicState {
		s.OnlyAvailable = onlyAvailable
		s.Loading = true
		return s
	})
	return vm.reload(ctx, nil)
}

func (vm *MechanicViewModel) Add(ctx context.Context, m models.Mechanic) error {
	return vm.reload(ctx, vm.mechanics.Create(ctx, &m))
}

// Save keeps a mechanic account seen on a request as a local contact
func (vm *MechanicViewModel) Save(ctx context.Context, account models.User) error {
	_, err := vm.mechanics.SaveRemote(ctx, account)
	return vm.reload(ctx, err)
}

func (vm *MechanicViewModel) Delete(ctx context.Context, id int64) error {
	return vm.reload(ctx, vm.mechanics.Delete(ctx, id))
}

func (vm *MechanicViewModel) SetPreferred(ctx context.Context, id int64) error {
	return vm.reload(ctx, vm.mechanics.SetPreferred(ctx, id))
}

func (vm *MechanicViewModel) reload(ctx context.Context, opErr error) error {
	var (
		list []models.Mechanic
		err  error
	)
	if vm.State().OnlyAvailable {
		list, err = vm.mechanics.ListAvailable(ctx)
	} else {
		list, err = vm.mechanics.List(ctx)
	}
	if opErr == nil {
		opErr = err
	}
	vm.st.Update(func(s MechanicState) MechanicState {
		if err == nil {
			s.Mechanics = list
		}
		s.Loading = false
		s.ErrorMessage = services.Message(opErr)
		return s
	})
	return opErr
}
