package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ImageAPI is the typed client of the image service
type ImageAPI struct {
	client *apiClient
}

// NewImageAPI creates a client for the image service at baseURL
func NewImageAPI(baseURL string, timeout time.Duration, tokens TokenSource) *ImageAPI {
	return &ImageAPI{client: newAPIClient(baseURL, timeout, tokens)}
}

func (a *ImageAPI) Upload(ctx context.Context, req UploadImageRequest) (*ImageDTO, error) {
	var out ImageDTO
	if err := a.client.do(ctx, http.MethodPost, "/api/images", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ImageAPI) Get(ctx context.Context, id int64) (*ImageDTO, error) {
	var out ImageDTO
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/images/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ImageAPI) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]ImageDTO, error) {
	var out []ImageDTO
	path := fmt.Sprintf("/api/images/entity/%s/%d", url.PathEscape(entityType), entityID)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ImageAPI) Delete(ctx context.Context, id int64) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/images/%d", id), nil, nil)
}
