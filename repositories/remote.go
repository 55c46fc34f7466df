package repositories

import (
	"context"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
)

// The interfaces below are the slices of *services.RemoteDataSource each
// repository needs.

type UserRemote interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, req services.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type VehicleRemote interface {
	CreateVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
	GetDefaultVehicle(ctx context.Context, userID int64) (*models.Vehicle, error)
	ClearDefaultVehicle(ctx context.Context, userID int64) error
	SetDefaultVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	CountVehicles(ctx context.Context, userID int64) (int64, error)
}

type ServiceRequestRemote interface {
	CreateServiceRequest(ctx context.Context, req services.CreateServiceRequestRequest) (*models.ServiceRequest, error)
	GetServiceRequest(ctx context.Context, id int64) (*models.ServiceRequest, error)
	ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error)
	ListServiceRequestsByUser(ctx context.Context, userID int64) ([]models.ServiceRequest, error)
	ListServiceRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.ServiceRequest, error)
	ListServiceRequestsByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, r models.ServiceRequest) (*models.ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, id int64, status models.RequestStatus) (*models.ServiceRequest, error)
	AssignMechanic(ctx context.Context, id int64, req services.AssignMechanicRequest) (*models.ServiceRequest, error)
	DeleteServiceRequest(ctx context.Context, id int64) error
}

type ImageRemote interface {
	UploadImage(ctx context.Context, entityType string, entityID int64, fileName, mimeType string, data []byte) (*services.RemoteImage, error)
	GetImage(ctx context.Context, id int64) (*services.RemoteImage, error)
	ListImages(ctx context.Context, entityType string, entityID int64) ([]services.RemoteImage, error)
	DeleteImage(ctx context.Context, id int64) error
}

var (
	_ UserRemote           = (*services.RemoteDataSource)(nil)
	_ VehicleRemote        = (*services.RemoteDataSource)(nil)
	_ ServiceRequestRemote = (*services.RemoteDataSource)(nil)
	_ ImageRemote          = (*services.RemoteDataSource)(nil)
)
