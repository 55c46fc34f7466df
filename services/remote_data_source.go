package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
)

// Image entity types understood by the image service
const (
	EntityServiceRequest = "service_request"
	EntityVehicle        = "vehicle"
	EntityUser           = "user"
)

// Endpoints holds the base URLs of the remote services
type Endpoints struct {
	Users    string
	Requests string
	Vehicles string
	Images   string
}

// RemoteImage is an image downloaded from the image service
type RemoteImage struct {
	ID         int64
	EntityType string
	EntityID   int64
	FileName   string
	MimeType   string
	Data       []byte
	URL        string
	CreatedAt  time.Time
}

// RemoteDataSource is the single translation point between the HTTP clients and the
// domain. Every failure it returns is an *APIError with a displayable message.
// It performs no caching and no retries.
type RemoteDataSource struct {
	users    *UserAPI
	requests *ServiceRequestAPI
	vehicles *VehicleAPI
	images   *ImageAPI
}

// NewRemoteDataSource builds the four API clients sharing timeout and token source
func NewRemoteDataSource(endpoints Endpoints, timeout time.Duration, tokens TokenSource) *RemoteDataSource {
	return &RemoteDataSource{
		users:    NewUserAPI(endpoints.Users, timeout, tokens),
		requests: NewServiceRequestAPI(endpoints.Requests, timeout, tokens),
		vehicles: NewVehicleAPI(endpoints.Vehicles, timeout, tokens),
		images:   NewImageAPI(endpoints.Images, timeout, tokens),
	}
}

// ---- users ----

// Login authenticates against the user service's login endpoint. There is no
// fallback to a lookup by email: a missing endpoint is reported as a failure.
func (s *RemoteDataSource) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", validationError("Ingresa tu correo y contraseña")
	}

	resp, err := s.users.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", withMessage(err, map[int]string{
			http.StatusBadRequest:          "Solicitud de inicio de sesión inválida",
			http.StatusUnauthorized:        "Correo o contraseña incorrectos",
			http.StatusNotFound:            "El servicio de usuarios no expone un endpoint de autenticación (/api/users/login). No es posible validar la contraseña.",
			http.StatusInternalServerError: "Error interno del servidor al iniciar sesión",
		})
	}
	if resp.Token == "" {
		return nil, "", &APIError{Kind: KindDecode, Message: "El servidor no devolvió un token de sesión"}
	}
	user := resp.User.ToUser()
	return &user, resp.Token, nil
}

// Register creates a user on the user service
func (s *RemoteDataSource) Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		role = models.RoleClient
	}
	dto, err := s.users.Register(ctx, RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Phone:    strings.TrimSpace(phone),
		Password: password,
		Role:     string(role),
	})
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest:          "Datos de registro inválidos. Revisa los campos del formulario.",
			http.StatusConflict:            "El correo ya está registrado",
			http.StatusInternalServerError: "Error interno del servidor al registrar el usuario. Revisa los logs del servicio de usuarios.",
			http.StatusNotFound:            "Endpoint de registro no encontrado. Verifica la URL del servicio de usuarios.",
		})
	}
	user := dto.ToUser()
	return &user, nil
}

func (s *RemoteDataSource) GetUser(ctx context.Context, id int64) (*models.User, error) {
	dto, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "Usuario no encontrado"})
	}
	user := dto.ToUser()
	return &user, nil
}

func (s *RemoteDataSource) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dto, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "No existe un usuario con ese correo"})
	}
	user := dto.ToUser()
	return &user, nil
}

func (s *RemoteDataSource) ListUsers(ctx context.Context) ([]models.User, error) {
	dtos, err := s.users.List(ctx)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusForbidden: "Solo un administrador puede listar usuarios"})
	}
	out := make([]models.User, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.ToUser())
	}
	return out, nil
}

func (s *RemoteDataSource) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	dto, err := s.users.Update(ctx, id, req)
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest: "Datos de perfil inválidos",
			http.StatusNotFound:   "Usuario no encontrado",
			http.StatusConflict:   "El correo ya está en uso por otra cuenta",
			http.StatusForbidden:  "No tienes permiso para modificar este usuario",
		})
	}
	user := dto.ToUser()
	return &user, nil
}

func (s *RemoteDataSource) DeleteUser(ctx context.Context, id int64) error {
	return withMessage(s.users.Delete(ctx, id), map[int]string{
		http.StatusNotFound:  "Usuario no encontrado",
		http.StatusForbidden: "No tienes permiso para eliminar este usuario",
	})
}

// ---- service requests ----

func (s *RemoteDataSource) CreateServiceRequest(ctx context.Context, req CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	dto, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusBadRequest: "Datos de la solicitud inválidos"})
	}
	r := dto.ToServiceRequest()
	return &r, nil
}

func (s *RemoteDataSource) GetServiceRequest(ctx context.Context, id int64) (*models.ServiceRequest, error) {
	dto, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "Solicitud no encontrada"})
	}
	r := dto.ToServiceRequest()
	return &r, nil
}

func (s *RemoteDataSource) ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	return toServiceRequests(s.requests.List(ctx))
}

func (s *RemoteDataSource) ListServiceRequestsByUser(ctx context.Context, userID int64) ([]models.ServiceRequest, error) {
	return toServiceRequests(s.requests.ListByUser(ctx, userID))
}

func (s *RemoteDataSource) ListServiceRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.ServiceRequest, error) {
	return toServiceRequests(s.requests.ListByStatus(ctx, string(status)))
}

func (s *RemoteDataSource) ListServiceRequestsByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceRequest, error) {
	return toServiceRequests(s.requests.ListByMechanic(ctx, mechanicID))
}

func (s *RemoteDataSource) UpdateServiceRequest(ctx context.Context, r models.ServiceRequest) (*models.ServiceRequest, error) {
	dto, err := s.requests.Update(ctx, r.ID, ServiceRequestToDTO(r))
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest: "Datos de la solicitud inválidos",
			http.StatusNotFound:   "Solicitud no encontrada",
		})
	}
	out := dto.ToServiceRequest()
	return &out, nil
}

func (s *RemoteDataSource) UpdateServiceRequestStatus(ctx context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error) {
	dto, err := s.requests.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusNotFound: "Solicitud no encontrada",
			http.StatusConflict: "Cambio de estado no permitido para esta solicitud",
		})
	}
	out := dto.ToServiceRequest()
	return &out, nil
}

func (s *RemoteDataSource) AssignMechanic(ctx context.Context, id int64, req AssignMechanicRequest) (*models.ServiceRequest, error) {
	dto, err := s.requests.AssignMechanic(ctx, id, req)
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusNotFound: "Solicitud no encontrada",
			http.StatusConflict: "La solicitud ya fue tomada por otro mecánico",
		})
	}
	out := dto.ToServiceRequest()
	return &out, nil
}

func (s *RemoteDataSource) DeleteServiceRequest(ctx context.Context, id int64) error {
	return withMessage(s.requests.Delete(ctx, id), map[int]string{http.StatusNotFound: "Solicitud no encontrada"})
}

func toServiceRequests(dtos []ServiceRequestDTO, err error) ([]models.ServiceRequest, error) {
	if err != nil {
		return nil, err
	}
	out := make([]models.ServiceRequest, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.ToServiceRequest())
	}
	return out, nil
}

// ---- vehicles ----

func (s *RemoteDataSource) CreateVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	dto, err := s.vehicles.Create(ctx, VehicleToRequest(v))
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest: "Datos del vehículo inválidos",
			http.StatusConflict:   "Ya tienes un vehículo con esa patente",
		})
	}
	out := dto.ToVehicle()
	return &out, nil
}

func (s *RemoteDataSource) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	dto, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "Vehículo no encontrado"})
	}
	out := dto.ToVehicle()
	return &out, nil
}

func (s *RemoteDataSource) ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	dtos, err := s.vehicles.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Vehicle, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.ToVehicle())
	}
	return out, nil
}

func (s *RemoteDataSource) UpdateVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	dto, err := s.vehicles.Update(ctx, v.ID, VehicleToRequest(v))
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest: "Datos del vehículo inválidos",
			http.StatusNotFound:   "Vehículo no encontrado",
			http.StatusConflict:   "Ya tienes un vehículo con esa patente",
		})
	}
	out := dto.ToVehicle()
	return &out, nil
}

func (s *RemoteDataSource) DeleteVehicle(ctx context.Context, id int64) error {
	return withMessage(s.vehicles.Delete(ctx, id), map[int]string{http.StatusNotFound: "Vehículo no encontrado"})
}

// GetDefaultVehicle returns nil without error when the user has no default vehicle
func (s *RemoteDataSource) GetDefaultVehicle(ctx context.Context, userID int64) (*models.Vehicle, error) {
	dto, err := s.vehicles.GetDefault(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	out := dto.ToVehicle()
	return &out, nil
}

func (s *RemoteDataSource) ClearDefaultVehicle(ctx context.Context, userID int64) error {
	return s.vehicles.ClearDefault(ctx, userID)
}

func (s *RemoteDataSource) SetDefaultVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	dto, err := s.vehicles.SetDefault(ctx, id)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "Vehículo no encontrado"})
	}
	out := dto.ToVehicle()
	return &out, nil
}

func (s *RemoteDataSource) CountVehicles(ctx context.Context, userID int64) (int64, error) {
	return s.vehicles.Count(ctx, userID)
}

// ---- images ----

// UploadImage sends data base64-encoded to the image service
func (s *RemoteDataSource) UploadImage(ctx context.Context, entityType string, entityID int64, fileName, mimeType string, data []byte) (*RemoteImage, error) {
	dto, err := s.images.Upload(ctx, UploadImageRequest{
		EntityType: entityType,
		EntityID:   entityID,
		FileName:   fileName,
		MimeType:   mimeType,
		Data:       base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, withMessage(err, map[int]string{
			http.StatusBadRequest:            "Imagen inválida",
			http.StatusRequestEntityTooLarge: "La imagen es demasiado grande",
		})
	}
	return toRemoteImage(*dto)
}

func (s *RemoteDataSource) GetImage(ctx context.Context, id int64) (*RemoteImage, error) {
	dto, err := s.images.Get(ctx, id)
	if err != nil {
		return nil, withMessage(err, map[int]string{http.StatusNotFound: "Imagen no encontrada"})
	}
	return toRemoteImage(*dto)
}

func (s *RemoteDataSource) ListImages(ctx context.Context, entityType string, entityID int64) ([]RemoteImage, error) {
	dtos, err := s.images.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]RemoteImage, 0, len(dtos))
	for _, d := range dtos {
		img, err := toRemoteImage(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *img)
	}
	return out, nil
}

func (s *RemoteDataSource) DeleteImage(ctx context.Context, id int64) error {
	return withMessage(s.images.Delete(ctx, id), map[int]string{http.StatusNotFound: "Imagen no encontrada"})
}

func toRemoteImage(d ImageDTO) (*RemoteImage, error) {
	img := &RemoteImage{
		ID:         d.ID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		URL:        d.URL,
		CreatedAt:  d.CreatedAt,
	}
	if d.Data != "" {
		data, err := base64.StdEncoding.DecodeString(d.Data)
		if err != nil {
			return nil, &APIError{Kind: KindDecode, Message: "La imagen recibida no es base64 válido", Err: err}
		}
		img.Data = data
	}
	return img, nil
}
