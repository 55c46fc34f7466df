package services

import (
	"time"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
)

// Wire shapes shared by the client SDK and the developer backend.

type UserDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

type ServiceRequestDTO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ServiceType   string    `json:"serviceType"`
	VehicleInfo   string    `json:"vehicleInfo"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	ImageIDs      []int64   `json:"imageIds,omitempty"`
	MechanicID    *int64    `json:"mechanicId,omitempty"`
	MechanicName  *string   `json:"mechanicName,omitempty"`
	EstimatedCost *float64  `json:"estimatedCost,omitempty"`
	Location      string    `json:"location,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateServiceRequestRequest struct {
	UserID        int64    `json:"userId" binding:"required"`
	ServiceType   string   `json:"serviceType" binding:"required"`
	VehicleInfo   string   `json:"vehicleInfo"`
	Description   string   `json:"description" binding:"required"`
	ImageIDs      []int64  `json:"imageIds,omitempty"`
	EstimatedCost *float64 `json:"estimatedCost,omitempty"`
	Location      string   `json:"location,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignMechanicRequest struct {
	MechanicID    int64    `json:"mechanicId" binding:"required"`
	MechanicName  string   `json:"mechanicName" binding:"required"`
	EstimatedCost *float64 `json:"estimatedCost,omitempty"`
}

type VehicleDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Plate     string    `json:"plate"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"isDefault"`
	Image     []byte    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleRequest is the create/update body. Image is sent base64 encoded; an
// update without one keeps the stored image.
type VehicleRequest struct {
	UserID    int64  `json:"userId" binding:"required"`
	Brand     string `json:"brand" binding:"required"`
	Model     string `json:"model" binding:"required"`
	Year      int    `json:"year"`
	Plate     string `json:"plate" binding:"required"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
	Image     []byte `json:"image,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ImageDTO struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	Data       string    `json:"data,omitempty"` // base64
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UploadImageRequest struct {
	EntityType string `json:"entityType" binding:"required"`
	EntityID   int64  `json:"entityId" binding:"required"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Data       string `json:"data" binding:"required"` // base64
}

// ToUser maps the wire user onto the domain entity
func (d UserDTO) ToUser() models.User {
	role, err := models.ParseRole(d.Role)
	if err != nil {
		role = models.RoleClient
	}
	return models.User{ID: d.ID, Email: d.Email, Name: d.Name, Phone: d.Phone, Role: role, CreatedAt: d.CreatedAt}
}

// UserToDTO maps a domain user onto the wire shape
func UserToDTO(u models.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

// ToServiceRequest maps the wire request onto the domain entity
func (d ServiceRequestDTO) ToServiceRequest() models.ServiceRequest {
	return models.ServiceRequest{
		ID:            d.ID,
		UserID:        d.UserID,
		ServiceType:   d.ServiceType,
		VehicleInfo:   d.VehicleInfo,
		Description:   d.Description,
		Status:        models.RequestStatus(d.Status),
		ImageIDs:      d.ImageIDs,
		MechanicID:    d.MechanicID,
		MechanicName:  d.MechanicName,
		EstimatedCost: d.EstimatedCost,
		Location:      d.Location,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
	}
}

// ServiceRequestToDTO maps a domain request onto the wire shape
func ServiceRequestToDTO(r models.ServiceRequest) ServiceRequestDTO {
	return ServiceRequestDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		ServiceType:   r.ServiceType,
		VehicleInfo:   r.VehicleInfo,
		Description:   r.Description,
		Status:        string(r.Status),
		ImageIDs:      r.ImageIDs,
		MechanicID:    r.MechanicID,
		MechanicName:  r.MechanicName,
		EstimatedCost: r.EstimatedCost,
		Location:      r.Location,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// ToVehicle maps the wire vehicle onto the domain entity
func (d VehicleDTO) ToVehicle() models.Vehicle {
	return models.Vehicle{
		ID:        d.ID,
		UserID:    d.UserID,
		Brand:     d.Brand,
		Model:     d.Model,
		Year:      d.Year,
		Plate:     d.Plate,
		Color:     d.Color,
		IsDefault: d.IsDefault,
		CreatedAt: d.CreatedAt,
		Image:     d.Image,
	}
}

// VehicleToDTO maps a domain vehicle onto the wire shape
func VehicleToDTO(v models.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Plate:     v.Plate,
		Color:     v.Color,
		IsDefault: v.IsDefault,
		CreatedAt: v.CreatedAt,
		Image:     v.Image,
	}
}

// VehicleToRequest builds the create/update body for v
func VehicleToRequest(v models.Vehicle) VehicleRequest {
	return VehicleRequest{
		UserID:    v.UserID,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Plate:     v.Plate,
		Color:     v.Color,
		IsDefault: v.IsDefault,
		Image:     v.Image,
	}
}
