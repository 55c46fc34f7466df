package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ServiceRequestAPI is the typed client of the service-request service
type ServiceRequestAPI struct {
	client *apiClient
}

// NewServiceRequestAPI creates a client for the service-request service at baseURL
func NewServiceRequestAPI(baseURL string, timeout time.Duration, tokens TokenSource) *ServiceRequestAPI {
	return &ServiceRequestAPI{client: newAPIClient(baseURL, timeout, tokens)}
}

func (a *ServiceRequestAPI) Create(ctx context.Context, req CreateServiceRequestRequest) (*ServiceRequestDTO, error) {
	var out ServiceRequestDTO
	if err := a.client.do(ctx, http.MethodPost, "/api/service-requests", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ServiceRequestAPI) Get(ctx context.Context, id int64) (*ServiceRequestDTO, error) {
	var out ServiceRequestDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/service-requests/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ServiceRequestAPI) List(ctx context.Context) ([]ServiceRequestDTO, error) {
	return a.list(ctx, "/api/service-requests")
}

func (a *ServiceRequestAPI) ListByUser(ctx context.Context, userID int64) ([]ServiceRequestDTO, error) {
	return a.list(ctx, fmt.Sprintf("/api/service-requests/user/%d", userID))
}

func (a *ServiceRequestAPI) ListByStatus(ctx context.Context, status string) ([]ServiceRequestDTO, error) {
	return a.list(ctx, "/api/service-requests/status/"+url.PathEscape(status))
}

func (a *ServiceRequestAPI) ListByMechanic(ctx context.Context, mechanicID int64) ([]ServiceRequestDTO, error) {
	return a.list(ctx, fmt.Sprintf("/api/service-requests/mechanic/%d", mechanicID))
}

func (a *ServiceRequestAPI) Update(ctx context.Context, id int64, req ServiceRequestDTO) (*ServiceRequestDTO, error) {
	var out ServiceRequestDTO
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/service-requests/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ServiceRequestAPI) UpdateStatus(ctx context.Context, id int64, status string) (*ServiceRequestDTO, error) {
	var out ServiceRequestDTO
	path := fmt.Sprintf("/api/service-requests/%d/status", id)
	if err := a.client.do(ctx, http.MethodPatch, path, StatusUpdateRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ServiceRequestAPI) AssignMechanic(ctx context.Context, id int64, req AssignMechanicRequest) (*ServiceRequestDTO, error) {
	var out ServiceRequestDTO
	if err := a.client.do(ctx, http.MethodPatch, fmt.Sprintf("/api/service-requests/%d/assign", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ServiceRequestAPI) Delete(ctx context.Context, id int64) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/service-requests/%d", id), nil, nil)
}

func (a *ServiceRequestAPI) list(ctx context.Context, path string) ([]ServiceRequestDTO, error) {
	var out []ServiceRequestDTO
	if err := a.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
