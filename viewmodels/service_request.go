package viewmodels

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

// RequestSource is implemented by *repositories.ServiceRequestRepository
type RequestSource interface {
	Create(ctx context.Context, req services.CreateServiceRequestRequest) (*models.ServiceRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ServiceRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ServiceRequest, error)
	ListByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceRequest, error)
	AssignMechanic(ctx context.Context, id int64, mechanic models.User, estimatedCost *float64) (*models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error)
	Cancel(ctx context.Context, id int64) (*models.ServiceRequest, error)
}

// RequestHistory keeps a device-side copy of every request sent;
// *repositories.RequestHistoryRepository implements it
type RequestHistory interface {
	Create(ctx context.Context, h *models.RequestHistory) error
	LinkRemote(ctx context.Context, id, remoteID int64) error
}

// RequestForm is the new request form as typed
type RequestForm struct {
	ServiceType string
	VehicleInfo string
	Description string
	Location    string
	Notes       string
	ImageIDs    []int64
}

type ServiceRequestState struct {
	Requests []models.ServiceRequest

	ServiceTypeError string
	DescriptionError string

	Loading      bool
	IsSubmitting bool
	// Created holds the last created request until ConsumeCreated is called
	Created      *models.ServiceRequest
	ErrorMessage string
}

// ServiceRequestViewModel backs both the client's "my requests" screen and
// the mechanic's work list.
type ServiceRequestViewModel struct {
	holder[ServiceRequestState]
	requests RequestSource
	history  RequestHistory
}

// NewServiceRequestViewModel builds the view model; history may be nil
func NewServiceRequestViewModel(requests RequestSource, history RequestHistory) *ServiceRequestViewModel {
	return &ServiceRequestViewModel{
		holder:   newHolder(ServiceRequestState{Requests: []models.ServiceRequest{}}),
		requests: requests,
		history:  history,
	}
}

// Create sends a new request for userID. A local history row is written
// first so the request is kept on the device even if sending fails.
func (vm *ServiceRequestViewModel) Create(ctx context.Context, userID int64, form RequestForm) (*models.ServiceRequest, error) {
	var startErr error
	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		if s.IsSubmitting {
			startErr = ErrBusy
			return s
		}
		s.ServiceTypeError = utils.ValidateRequired(form.ServiceType, "tipo de servicio")
		s.DescriptionError = utils.ValidateRequired(form.Description, "descripción")
		if s.ServiceTypeError != "" || s.DescriptionError != "" {
			startErr = ErrInvalidForm
			return s
		}
		s.IsSubmitting = true
		s.ErrorMessage = ""
		return s
	})
	if startErr != nil {
		return nil, startErr
	}

	var local *models.RequestHistory
	if vm.history != nil {
		local = &models.RequestHistory{
			UserID:      userID,
			ServiceType: strings.TrimSpace(form.ServiceType),
			VehicleInfo: form.VehicleInfo,
			Description: strings.TrimSpace(form.Description),
			Address:     form.Location,
		}
		if err := vm.history.Create(ctx, local); err != nil {
			log.Printf("Failed to keep local copy of request: %v", err)
			local = nil
		}
	}

	created, err := vm.requests.Create(ctx, services.CreateServiceRequestRequest{
		UserID:      userID,
		ServiceType: strings.TrimSpace(form.ServiceType),
		VehicleInfo: form.VehicleInfo,
		Description: strings.TrimSpace(form.Description),
		ImageIDs:    form.ImageIDs,
		Location:    form.Location,
		Notes:       form.Notes,
	})
	if err == nil && local != nil {
		if linkErr := vm.history.LinkRemote(ctx, local.ID, created.ID); linkErr != nil {
			log.Printf("Failed to link local request %d to %d: %v", local.ID, created.ID, linkErr)
		}
	}

	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		s.IsSubmitting = false
		if err != nil {
			s.ErrorMessage = services.Message(err)
			return s
		}
		s.Requests = append([]models.ServiceRequest{*created}, s.Requests...)
		s.Created = created
		return s
	})
	return created, err
}

// ConsumeCreated returns the request created by the last Create once
func (vm *ServiceRequestViewModel) ConsumeCreated() *models.ServiceRequest {
	var created *models.ServiceRequest
	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		created = s.Created
		s.Created = nil
		return s
	})
	return created
}

// LoadMine lists the requests made by userID
func (vm *ServiceRequestViewModel) LoadMine(ctx context.Context, userID int64) error {
	vm.setLoading()
	list, err := vm.requests.ListByUser(ctx, userID)
	return vm.setList(list, err)
}

// LoadForMechanic lists the open requests a mechanic can take plus the ones
// already assigned to them, open ones first.
func (vm *ServiceRequestViewModel) LoadForMechanic(ctx context.Context, mechanicID int64) error {
	vm.setLoading()
	pending, err := vm.requests.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return vm.setList(nil, err)
	}
	assigned, err := vm.requests.ListByMechanic(ctx, mechanicID)
	if err != nil {
		return vm.setList(nil, err)
	}

	seen := make(map[int64]bool, len(pending))
	list := make([]models.ServiceRequest, 0, len(pending)+len(assigned))
	for _, r := range pending {
		seen[r.ID] = true
		list = append(list, r)
	}
	var mine []models.ServiceRequest
	for _, r := range assigned {
		if !seen[r.ID] {
			mine = append(mine, r)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	return vm.setList(append(list, mine...), nil)
}

// Accept assigns the request to mechanic, moving it to En Proceso
func (vm *ServiceRequestViewModel) Accept(ctx context.Context, id int64, mechanic models.User, estimatedCost *float64) error {
	updated, err := vm.requests.AssignMechanic(ctx, id, mechanic, estimatedCost)
	return vm.replace(updated, err)
}

func (vm *ServiceRequestViewModel) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	updated, err := vm.requests.UpdateStatus(ctx, id, status)
	return vm.replace(updated, err)
}

func (vm *ServiceRequestViewModel) Cancel(ctx context.Context, id int64) error {
	updated, err := vm.requests.Cancel(ctx, id)
	return vm.replace(updated, err)
}

func (vm *ServiceRequestViewModel) setLoading() {
	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		s.Loading = true
		return s
	})
}

func (vm *ServiceRequestViewModel) setList(list []models.ServiceRequest, err error) error {
	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		s.Loading = false
		s.ErrorMessage = services.Message(err)
		if err == nil {
			s.Requests = list
		}
		return s
	})
	return err
}

func (vm *ServiceRequestViewModel) replace(updated *models.ServiceRequest, err error) error {
	vm.st.Update(func(s ServiceRequestState) ServiceRequestState {
		s.ErrorMessage = services.Message(err)
		if err != nil {
			return s
		}
		list := make([]models.ServiceRequest, len(s.Requests))
		copy(list, s.Requests)
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
			}
		}
		s.Requests = list
		return s
	})
	return err
}
