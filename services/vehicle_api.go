package services

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// VehicleAPI is the typed client of the vehicle service
type VehicleAPI struct {
	client *apiClient
}

// NewVehicleAPI creates a client for the vehicle service at baseURL
func NewVehicleAPI(baseURL string, timeout time.Duration, tokens TokenSource) *VehicleAPI {
	return &VehicleAPI{client: newAPIClient(baseURL, timeout, tokens)}
}

func (a *VehicleAPI) Create(ctx context.Context, req VehicleRequest) (*VehicleDTO, error) {
	var out VehicleDTO
	if err := a.client.do(ctx, http.MethodPost, "/api/vehicles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *VehicleAPI) Get(ctx context.Context, id int64) (*VehicleDTO, error) {
	var out VehicleDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/vehicles/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *VehicleAPI) ListByUser(ctx context.Context, userID int64) ([]VehicleDTO, error) {
	var out []VehicleDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/vehicles/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *VehicleAPI) Update(ctx context.Context, id int64, req VehicleRequest) (*VehicleDTO, error) {
	var out VehicleDTO
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/vehicles/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *VehicleAPI) Delete(ctx context.Context, id int64) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/vehicles/%d", id), nil, nil)
}

func (a *VehicleAPI) GetDefault(ctx context.Context, userID int64) (*VehicleDTO, error) {
	var out VehicleDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/vehicles/user/%d/default", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearDefault unsets the default flag on every vehicle of the user
func (a *VehicleAPI) ClearDefault(ctx context.Context, userID int64) error {
	return a.client.do(ctx, http.MethodPatch, fmt.Sprintf("/api/vehicles/user/%d/default/clear", userID), nil, nil)
}

// SetDefault flags one vehicle as default without touching the others
func (a *VehicleAPI) SetDefault(ctx context.Context, id int64) (*VehicleDTO, error) {
	var out VehicleDTO
	if err := a.client.do(ctx, http.MethodPatch, fmt.Sprintf("/api/vehicles/%d/default", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *VehicleAPI) Count(ctx context.Context, userID int64) (int64, error) {
	var out CountResponse
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/vehicles/user/%d/count", userID), nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
