package viewmodels

import (
	"context"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
)

// AddressStore is implemented by *repositories.AddressRepository
type AddressStore interface {
	Create(ctx context.Context, a *models.Address) error
	ListByUser(ctx context.Context, userID int64) ([]models.Address, error)
	Update(ctx context.Context, a *models.Address) error
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, userID, id int64) error
}

type AddressState struct {
	UserID       int64
	Addresses    []models.Address
	Loading      bool
	ErrorMessage string
}

// AddressViewModel lists and edits the saved addresses of one user. After
// every write the list is reloaded from the store.
type AddressViewModel struct {
	holder[AddressState]
	addresses AddressStore
}

func NewAddressViewModel(addresses AddressStore) *AddressViewModel {
	return &AddressViewModel{holder: newHolder(AddressState{Addresses: []models.Address{}}), addresses: addresses}
}

func (vm *AddressViewModel) Load(ctx context.Context, userID int64) error {
	vm.st.Update(func(s AddressState) AddressState {
		if s.UserID != userID {
			s.Addresses = []models.Address{}
		}
		s.UserID = userID
		s.Loading = true
		return s
	})
	return vm.reload(ctx, nil)
}

func (vm *AddressViewModel) Add(ctx context.Context, a models.Address) error {
	userID, err := vm.userID()
	if err != nil {
		return err
	}
	a.UserID = userID
	return vm.reload(ctx, vm.addresses.Create(ctx, &a))
}

func (vm *AddressViewModel) Edit(ctx context.Context, a models.Address) error {
	return vm.reload(ctx, vm.addresses.Update(ctx, &a))
}

func (vm *AddressViewModel) Delete(ctx context.Context, id int64) error {
	return vm.reload(ctx, vm.addresses.Delete(ctx, id))
}

func (vm *AddressViewModel) SetDefault(ctx context.Context, id int64) error {
	userID, err := vm.userID()
	if err != nil {
		return err
	}
	return vm.reload(ctx, vm.addresses.SetDefault(ctx, userID, id))
}

// reload refreshes the list and records opErr, the result of the write that
// preceded it, as the displayed error
func (vm *AddressViewModel) reload(ctx context.Context, opErr error) error {
	list, err := vm.addresses.ListByUser(ctx, vm.State().UserID)
	if opErr == nil {
		opErr = err
	}
	vm.st.Update(func(s AddressState) AddressState {
		if err == nil {
			s.Addresses = list
		}
		s.Loading = false
		s.ErrorMessage = services.Message(opErr)
		return s
	})
	return opErr
}

func (vm *AddressViewModel) userID() (int64, error) {
	if id := vm.State().UserID; id != 0 {
		return id, nil
	}
	return 0, ErrNoUser
}
