package viewmodels

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/repositories"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/state"
)

func httpErr(status int, msg string) error {
	return &services.APIError{Kind: services.KindHTTP, StatusCode: status, Message: msg}
}

// fakeUsers authenticates against an in-memory account list
type fakeUsers struct {
	mu       sync.Mutex
	accounts map[string]string
	users    map[string]models.User
	nextID   int64
	block    chan struct{}
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{accounts: make(map[string]string), users: make(map[string]models.User)}
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*models.User, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return nil, httpErr(http.StatusUnauthorized, "Credenciales inválidas")
	}
	u := f.users[email]
	return &u, nil
}

func (f *fakeUsers) Register(ctx context.Context, in repositories.RegisterInput) (*models.User, error) {
	f.mu.Lock()
	if _, ok := f.accounts[in.Email]; ok {
		f.mu.Unlock()
		return nil, httpErr(http.StatusConflict, "El correo ya está registrado")
	}
	f.nextID++
	f.accounts[in.Email] = in.Password
	f.users[in.Email] = models.User{ID: f.nextID, Email: in.Email, Name: in.Name, Phone: in.Phone, Role: in.Role}
	f.mu.Unlock()
	return f.Login(ctx, in.Email, in.Password)
}

// fakeVehicles publishes one shared list per user, like the repository
type fakeVehicles struct {
	mu      sync.Mutex
	lists   map[int64]*state.Observable[[]models.Vehicle]
	nextID  int64
	failSet bool
}

func newFakeVehicles(vs ...models.Vehicle) *fakeVehicles {
	f := &fakeVehicles{lists: make(map[int64]*state.Observable[[]models.Vehicle]), nextID: 100}
	for _, v := range vs {
		f.list(v.UserID).Update(func(l []models.Vehicle) []models.Vehicle { return append(l, v) })
	}
	return f
}

func (f *fakeVehicles) list(userID int64) *state.Observable[[]models.Vehicle] {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[userID]
	if !ok {
		l = state.NewObservable([]models.Vehicle{})
		f.lists[userID] = l
	}
	return l
}

func (f *fakeVehicles) edit(userID int64, fn func([]models.Vehicle) []models.Vehicle) {
	f.list(userID).Update(func(l []models.Vehicle) []models.Vehicle {
		out := make([]models.Vehicle, len(l))
		copy(out, l)
		return fn(out)
	})
}

func (f *fakeVehicles) Observe(_ context.Context, userID int64) (<-chan []models.Vehicle, func()) {
	return f.list(userID).Subscribe()
}

func (f *fakeVehicles) Refresh(_ context.Context, userID int64) ([]models.Vehicle, error) {
	return f.list(userID).Get(), nil
}

func (f *fakeVehicles) Create(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	f.nextID++
	v.ID = f.nextID
	f.mu.Unlock()
	v.CreatedAt = time.Now()
	f.edit(v.UserID, func(l []models.Vehicle) []models.Vehicle { return append(l, v) })
	return &v, nil
}

func (f *fakeVehicles) Update(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	f.edit(v.UserID, func(l []models.Vehicle) []models.Vehicle {
		for i := range l {
			if l[i].ID == v.ID {
				l[i] = v
			}
		}
		return l
	})
	return &v, nil
}

func (f *fakeVehicles) Delete(_ context.Context, userID, vehicleID int64) error {
	f.edit(userID, func(l []models.Vehicle) []models.Vehicle {
		out := l[:0]
		for _, v := range l {
			if v.ID != vehicleID {
				out = append(out, v)
			}
		}
		return out
	})
	return nil
}

func (f *fakeVehicles) SetDefault(_ context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	if f.failSet {
		return nil, httpErr(http.StatusInternalServerError, "Error 500: boom")
	}
	var updated *models.Vehicle
	f.edit(userID, func(l []models.Vehicle) []models.Vehicle {
		for i := range l {
			l[i].IsDefault = l[i].ID == vehicleID
			if l[i].IsDefault {
				v := l[i]
				updated = &v
			}
		}
		return l
	})
	if updated == nil {
		return nil, httpErr(http.StatusNotFound, "Vehículo no encontrado")
	}
	return updated, nil
}

// fakeRequests keeps service requests in memory and applies the transition table
type fakeRequests struct {
	mu       sync.Mutex
	requests map[int64]models.ServiceRequest
	nextID   int64
	failList bool
}

func newFakeRequests(rs ...models.ServiceRequest) *fakeRequests {
	f := &fakeRequests{requests: make(map[int64]models.ServiceRequest), nextID: 100}
	for _, r := range rs {
		f.requests[r.ID] = r
	}
	return f
}

func (f *fakeRequests) Create(_ context.Context, req services.CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r := models.ServiceRequest{
		ID: f.nextID, UserID: req.UserID, ServiceType: req.ServiceType, VehicleInfo: req.VehicleInfo,
		Description: req.Description, Status: models.StatusPending, Location: req.Location,
		Notes: req.Notes, ImageIDs: req.ImageIDs, CreatedAt: time.Now(),
	}
	f.requests[r.ID] = r
	return &r, nil
}

func (f *fakeRequests) filter(keep func(models.ServiceRequest) bool) ([]models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, httpErr(http.StatusInternalServerError, "Error 500: boom")
	}
	out := make([]models.ServiceRequest, 0)
	for id := int64(0); id <= f.nextID; id++ {
		if r, ok := f.requests[id]; ok && keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListByUser(_ context.Context, userID int64) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.UserID == userID })
}

func (f *fakeRequests) ListByStatus(_ context.Context, status models.RequestStatus) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.Status == status })
}

func (f *fakeRequests) ListByMechanic(_ context.Context, mechanicID int64) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.MechanicID != nil && *r.MechanicID == mechanicID })
}

func (f *fakeRequests) move(id int64, to models.RequestStatus, edit func(*models.ServiceRequest)) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, httpErr(http.StatusNotFound, "Solicitud no encontrada")
	}
	if err := r.Status.ValidateTransition(to); err != nil {
		return nil, services.NewValidationError("Cambio de estado no permitido para esta solicitud", err)
	}
	r.Status = to
	if edit != nil {
		edit(&r)
	}
	f.requests[id] = r
	return &r, nil
}

func (f *fakeRequests) AssignMechanic(_ context.Context, id int64, mechanic models.User, cost *float64) (*models.ServiceRequest, error) {
	return f.move(id, models.StatusInProgress, func(r *models.ServiceRequest) {
		mechanicID, name := mechanic.ID, mechanic.Name
		r.MechanicID, r.MechanicName, r.EstimatedCost = &mechanicID, &name, cost
	})
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error) {
	return f.move(id, status, nil)
}

func (f *fakeRequests) Cancel(_ context.Context, id int64) (*models.ServiceRequest, error) {
	return f.move(id, models.StatusCancelled, nil)
}
