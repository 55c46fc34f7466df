package repositories

import (
	"context"
	"fmt"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

// ServiceRequestRepository talks to the service-request service and enforces
// the status transition table on the client, even if the server is permissive.
type ServiceRequestRepository struct {
	remote ServiceRequestRemote
}

func NewServiceRequestRepository(remote ServiceRequestRemote) *ServiceRequestRepository {
	return &ServiceRequestRepository{remote: remote}
}

// Create validates the form fields and creates the request
func (r *ServiceRequestRepository) Create(ctx context.Context, req services.CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	if msg := utils.ValidateRequired(req.ServiceType, "tipo de servicio"); msg != "" {
		return nil, services.NewValidationError(msg, nil)
	}
	if msg := utils.ValidateRequired(req.Description, "descripción"); msg != "" {
		return nil, services.NewValidationError(msg, nil)
	}
	return r.remote.CreateServiceRequest(ctx, req)
}

func (r *ServiceRequestRepository) Get(ctx context.Context, id int64) (*models.ServiceRequest, error) {
	return r.remote.GetServiceRequest(ctx, id)
}

func (r *ServiceRequestRepository) List(ctx context.Context) ([]models.ServiceRequest, error) {
	return r.remote.ListServiceRequests(ctx)
}

func (r *ServiceRequestRepository) ListByUser(ctx context.Context, userID int64) ([]models.ServiceRequest, error) {
	return r.remote.ListServiceRequestsByUser(ctx, userID)
}

func (r *ServiceRequestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ServiceRequest, error) {
	if !status.Valid() {
		return nil, services.NewValidationError(fmt.Sprintf("Estado desconocido: %s", status), nil)
	}
	return r.remote.ListServiceRequestsByStatus(ctx, status)
}

func (r *ServiceRequestRepository) ListByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceRequest, error) {
	return r.remote.ListServiceRequestsByMechanic(ctx, mechanicID)
}

// Update saves the editable fields of req. The status is never changed here.
func (r *ServiceRequestRepository) Update(ctx context.Context, req models.ServiceRequest) (*models.ServiceRequest, error) {
	current, err := r.remote.GetServiceRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	req.Status = current.Status
	return r.remote.UpdateServiceRequest(ctx, req)
}

// UpdateStatus moves a request to status after checking the transition
// against the request's current remote status. En Proceso is only reached
// through AssignMechanic.
func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error) {
	current, err := r.remote.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(current.Status, status); err != nil {
		return nil, err
	}
	if status == models.StatusInProgress {
		return nil, services.NewValidationError("Un mecánico debe tomar la solicitud", fmt.Errorf("%w: %s -> %s requires a mechanic", models.ErrInvalidTransition, current.Status, status))
	}
	return r.remote.UpdateServiceRequestStatus(ctx, id, status)
}

// AssignMechanic lets a mechanic take a pending request, which moves it to En Proceso
func (r *ServiceRequestRepository) AssignMechanic(ctx context.Context, id int64, mechanic models.User, estimatedCost *float64) (*models.ServiceRequest, error) {
	if mechanic.Role != models.RoleMechanic {
		return nil, services.NewValidationError("Solo un mecánico puede tomar solicitudes", nil)
	}
	current, err := r.remote.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.StatusPending {
		return nil, services.NewValidationError("La solicitud ya no está pendiente", fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current.Status, models.StatusInProgress))
	}
	return r.remote.AssignMechanic(ctx, id, services.AssignMechanicRequest{
		MechanicID:    mechanic.ID,
		MechanicName:  mechanic.Name,
		EstimatedCost: estimatedCost,
	})
}

func (r *ServiceRequestRepository) Complete(ctx context.Context, id int64) (*models.ServiceRequest, error) {
	return r.UpdateStatus(ctx, id, models.StatusCompleted)
}

func (r *ServiceRequestRepository) Cancel(ctx context.Context, id int64) (*models.ServiceRequest, error) {
	return r.UpdateStatus(ctx, id, models.StatusCancelled)
}

func (r *ServiceRequestRepository) Delete(ctx context.Context, id int64) error {
	return r.remote.DeleteServiceRequest(ctx, id)
}

// checkTransition turns a rejected transition into a displayable error that
// still matches models.ErrInvalidTransition.
func checkTransition(from, to models.RequestStatus) error {
	if err := from.ValidateTransition(to); err != nil {
		return services.NewValidationError(fmt.Sprintf("No se puede cambiar el estado de %q a %q", from, to), err)
	}
	return nil
}
