package services

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
)

// ImageService decides where the bytes of an uploaded image live. The image row
// itself is always persisted by the caller.
type ImageService interface {
	// Store keeps data for img, filling either img.StorageKey or img.Data
	Store(ctx context.Context, img *models.Image, data []byte) error

	// Load returns the bytes of img
	Load(ctx context.Context, img *models.Image) ([]byte, error)

	// URL returns a direct download URL for img, or "" when none exists
	URL(ctx context.Context, img *models.Image) (string, error)

	// Remove drops the stored bytes of img
	Remove(ctx context.Context, img *models.Image) error
}

var imageServiceInstance ImageService

// InitImageService picks where image bytes live: the bucket behind s3Service,
// or the images table when s3Service is nil.
func InitImageService(s3Service S3Interface) ImageService {
	if s3Service == nil {
		imageServiceInstance = NewDBImageService()
	} else {
		imageServiceInstance = NewS3ImageService(s3Service)
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service, defaulting to the database
func GetImageService() ImageService {
	if imageServiceInstance == nil {
		return NewDBImageService()
	}
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService keeps image bytes in an S3 bucket
type S3ImageService struct {
	s3Service S3Interface
}

// NewS3ImageService creates an image service backed by s3Service
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// Store uploads data under images/{entityType}/{entityID}/{uuid}{ext}
func (s *S3ImageService) Store(ctx context.Context, img *models.Image, data []byte) error {
	ext := filepath.Ext(img.FileName)
	key := path.Join("images", img.EntityType, fmt.Sprint(img.EntityID), uuid.NewString()+ext)

	if err := s.s3Service.PutObject(ctx, key, img.MimeType, data); err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	img.StorageKey = key
	img.Data = nil
	return nil
}

func (s *S3ImageService) Load(ctx context.Context, img *models.Image) ([]byte, error) {
	data, err := s.s3Service.GetObject(ctx, img.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	return data, nil
}

// URL generates a presigned URL for the image
func (s *S3ImageService) URL(ctx context.Context, img *models.Image) (string, error) {
	if img.StorageKey == "" {
		return "", nil
	}
	u, err := s.s3Service.GetPresignedURL(ctx, img.StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return u, nil
}

func (s *S3ImageService) Remove(ctx context.Context, img *models.Image) error {
	if img.StorageKey == "" {
		return nil
	}
	if err := s.s3Service.DeleteObject(ctx, img.StorageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// DBImageService keeps image bytes in the images table itself
type DBImageService struct{}

// NewDBImageService creates an image service that stores BLOBs in the row
func NewDBImageService() *DBImageService {
	return &DBImageService{}
}

func (s *DBImageService) Store(_ context.Context, img *models.Image, data []byte) error {
	img.Data = data
	img.StorageKey = ""
	return nil
}

func (s *DBImageService) Load(_ context.Context, img *models.Image) ([]byte, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("image %d has no stored data", img.ID)
	}
	return img.Data, nil
}

func (s *DBImageService) URL(context.Context, *models.Image) (string, error) {
	return "", nil
}

func (s *DBImageService) Remove(context.Context, *models.Image) error {
	return nil
}
