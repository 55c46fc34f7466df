package repositories

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
)

func notFound(msg string) error {
	return &services.APIError{Kind: services.KindHTTP, StatusCode: http.StatusNotFound, Message: msg}
}

func serverError() error {
	return &services.APIError{Kind: services.KindHTTP, StatusCode: http.StatusInternalServerError, Message: "Error 500: boom"}
}

// fakeVehicleRemote behaves like the vehicle service: clear and set are two
// independent calls, and nothing stops a user from having two defaults.
type fakeVehicleRemote struct {
	mu        sync.RWMutex
	vehicles  map[int64]models.Vehicle
	nextID    int64
	listDelay time.Duration
	failSet   map[int64]bool
	listCalls int32
}

func newFakeVehicleRemote(vs ...models.Vehicle) *fakeVehicleRemote {
	f := &fakeVehicleRemote{vehicles: make(map[int64]models.Vehicle), failSet: make(map[int64]bool)}
	for _, v := range vs {
		f.vehicles[v.ID] = v
		if v.ID > f.nextID {
			f.nextID = v.ID
		}
	}
	return f
}

func (f *fakeVehicleRemote) CreateVehicle(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = time.Now()
	if v.IsDefault {
		for id, other := range f.vehicles {
			if other.UserID == v.UserID {
				other.IsDefault = false
				f.vehicles[id] = other
			}
		}
	}
	f.vehicles[v.ID] = v
	return &v, nil
}

func (f *fakeVehicleRemote) GetVehicle(_ context.Context, id int64) (*models.Vehicle, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, notFound("Vehículo no encontrado")
	}
	return &v, nil
}

func (f *fakeVehicleRemote) ListVehicles(_ context.Context, userID int64) ([]models.Vehicle, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Vehicle, 0)
	for _, v := range f.vehicles {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeVehicleRemote) UpdateVehicle(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[v.ID]; !ok {
		return nil, notFound("Vehículo no encontrado")
	}
	f.vehicles[v.ID] = v
	return &v, nil
}

func (f *fakeVehicleRemote) DeleteVehicle(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[id]; !ok {
		return notFound("Vehículo no encontrado")
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeVehicleRemote) GetDefaultVehicle(_ context.Context, userID int64) (*models.Vehicle, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, v := range f.vehicles {
		if v.UserID == userID && v.IsDefault {
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeVehicleRemote) ClearDefaultVehicle(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, v := range f.vehicles {
		if v.UserID == userID {
			v.IsDefault = false
			f.vehicles[id] = v
		}
	}
	return nil
}

func (f *fakeVehicleRemote) SetDefaultVehicle(_ context.Context, id int64) (*models.Vehicle, error) {
	// widen the window between clear and set so unlocked callers would interleave
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet[id] {
		return nil, serverError()
	}
	v, ok := f.vehicles[id]
	if !ok {
		return nil, notFound("Vehículo no encontrado")
	}
	v.IsDefault = true
	f.vehicles[id] = v
	return &v, nil
}

func (f *fakeVehicleRemote) CountVehicles(ctx context.Context, userID int64) (int64, error) {
	list, _ := f.ListVehicles(ctx, userID)
	return int64(len(list)), nil
}

func (f *fakeVehicleRemote) defaults(userID int64) []int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var ids []int64
	for _, v := range f.vehicles {
		if v.UserID == userID && v.IsDefault {
			ids = append(ids, v.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// fakeRequestRemote is a permissive service-request service: it accepts any status
type fakeRequestRemote struct {
	mu           sync.RWMutex
	requests     map[int64]models.ServiceRequest
	nextID       int64
	statusWrites int
	failCreate   bool
}

func newFakeRequestRemote(rs ...models.ServiceRequest) *fakeRequestRemote {
	f := &fakeRequestRemote{requests: make(map[int64]models.ServiceRequest)}
	for _, r := range rs {
		f.requests[r.ID] = r
		if r.ID > f.nextID {
			f.nextID = r.ID
		}
	}
	return f
}

func (f *fakeRequestRemote) CreateServiceRequest(_ context.Context, req services.CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, serverError()
	}
	f.nextID++
	r := models.ServiceRequest{
		ID:          f.nextID,
		UserID:      req.UserID,
		ServiceType: req.ServiceType,
		VehicleInfo: req.VehicleInfo,
		Description: req.Description,
		Status:      models.StatusPending,
		Location:    req.Location,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}
	f.requests[r.ID] = r
	return &r, nil
}

func (f *fakeRequestRemote) GetServiceRequest(_ context.Context, id int64) (*models.ServiceRequest, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, notFound("Solicitud no encontrada")
	}
	return &r, nil
}

func (f *fakeRequestRemote) filter(keep func(models.ServiceRequest) bool) []models.ServiceRequest {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.ServiceRequest, 0)
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRequestRemote) ListServiceRequests(context.Context) ([]models.ServiceRequest, error) {
	return f.filter(func(models.ServiceRequest) bool { return true }), nil
}

func (f *fakeRequestRemote) ListServiceRequestsByUser(_ context.Context, userID int64) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.UserID == userID }), nil
}

func (f *fakeRequestRemote) ListServiceRequestsByStatus(_ context.Context, status models.RequestStatus) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.Status == status }), nil
}

func (f *fakeRequestRemote) ListServiceRequestsByMechanic(_ context.Context, mechanicID int64) ([]models.ServiceRequest, error) {
	return f.filter(func(r models.ServiceRequest) bool { return r.MechanicID != nil && *r.MechanicID == mechanicID }), nil
}

func (f *fakeRequestRemote) UpdateServiceRequest(_ context.Context, r models.ServiceRequest) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[r.ID]; !ok {
		return nil, notFound("Solicitud no encontrada")
	}
	f.requests[r.ID] = r
	return &r, nil
}

func (f *fakeRequestRemote) UpdateServiceRequestStatus(_ context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, notFound("Solicitud no encontrada")
	}
	f.statusWrites++
	r.Status = status
	f.requests[id] = r
	return &r, nil
}

func (f *fakeRequestRemote) AssignMechanic(_ context.Context, id int64, req services.AssignMechanicRequest) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, notFound("Solicitud no encontrada")
	}
	mechanicID, name := req.MechanicID, req.MechanicName
	r.MechanicID, r.MechanicName, r.EstimatedCost = &mechanicID, &name, req.EstimatedCost
	r.Status = models.StatusInProgress
	f.requests[id] = r
	return &r, nil
}

func (f *fakeRequestRemote) DeleteServiceRequest(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

// fakeUserRemote checks passwords the way the real login endpoint does
type fakeUserRemote struct {
	mu        sync.RWMutex
	users     map[int64]models.User
	passwords map[string]string
	nextID    int64
}

func newFakeUserRemote() *fakeUserRemote {
	return &fakeUserRemote{users: make(map[int64]models.User), passwords: make(map[string]string)}
}

func (f *fakeUserRemote) Login(_ context.Context, email, password string) (*models.User, string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.Email == email && f.passwords[email] == password {
			return &u, "token-" + email, nil
		}
	}
	return nil, "", &services.APIError{Kind: services.KindHTTP, StatusCode: http.StatusUnauthorized, Message: "Correo o contraseña incorrectos"}
}

func (f *fakeUserRemote) Register(_ context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.passwords[email]; taken {
		return nil, &services.APIError{Kind: services.KindHTTP, StatusCode: http.StatusConflict, Message: "El correo ya está registrado"}
	}
	f.nextID++
	u := models.User{ID: f.nextID, Name: name, Email: email, Phone: phone, Role: role}
	f.users[u.ID] = u
	f.passwords[email] = password
	return &u, nil
}

func (f *fakeUserRemote) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, notFound("Usuario no encontrado")
	}
	return &u, nil
}

func (f *fakeUserRemote) ListUsers(context.Context) ([]models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRemote) UpdateUser(_ context.Context, id int64, req services.UpdateUserRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, notFound("Usuario no encontrado")
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUserRemote) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// fakeImageRemote keeps uploads in memory
type fakeImageRemote struct {
	mu     sync.RWMutex
	images map[int64]services.RemoteImage
	nextID int64
}

func newFakeImageRemote() *fakeImageRemote {
	return &fakeImageRemote{images: make(map[int64]services.RemoteImage)}
}

func (f *fakeImageRemote) UploadImage(_ context.Context, entityType string, entityID int64, fileName, mimeType string, data []byte) (*services.RemoteImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	img := services.RemoteImage{ID: f.nextID, EntityType: entityType, EntityID: entityID, FileName: fileName, MimeType: mimeType, Data: data}
	f.images[img.ID] = img
	return &img, nil
}

func (f *fakeImageRemote) GetImage(_ context.Context, id int64) (*services.RemoteImage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	img, ok := f.images[id]
	if !ok {
		return nil, notFound("Imagen no encontrada")
	}
	return &img, nil
}

func (f *fakeImageRemote) ListImages(_ context.Context, entityType string, entityID int64) ([]services.RemoteImage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]services.RemoteImage, 0)
	for _, img := range f.images {
		if img.EntityType == entityType && img.EntityID == entityID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImageRemote) DeleteImage(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.images[id]; !ok {
		return notFound("Imagen no encontrada")
	}
	delete(f.images, id)
	return nil
}
