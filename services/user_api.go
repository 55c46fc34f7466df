package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// UserAPI is the typed client of the user service
type UserAPI struct {
	client *apiClient
}

// NewUserAPI creates a client for the user service at baseURL
func NewUserAPI(baseURL string, timeout time.Duration, tokens TokenSource) *UserAPI {
	return &UserAPI{client: newAPIClient(baseURL, timeout, tokens)}
}

func (a *UserAPI) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	var out UserDTO
	if err := a.client.do(ctx, http.MethodPost, "/api/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAPI) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := a.client.do(ctx, http.MethodPost, "/api/users/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAPI) Get(ctx context.Context, id int64) (*UserDTO, error) {
	var out UserDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAPI) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	var out UserDTO
	if err := a.client.do(ctx, http.MethodGet, "/api/users/email/"+url.PathEscape(email), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAPI) List(ctx context.Context) ([]UserDTO, error) {
	var out []UserDTO
	if err := a.client.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UserAPI) Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserDTO, error) {
	var out UserDTO
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAPI) Delete(ctx context.Context, id int64) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}
