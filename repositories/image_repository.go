package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// ImageRepository keeps request photos as BLOB rows on the device and moves
// them to and from the remote image service. Both paths shrink images the
// same way, through utils.PrepareImage.
type ImageRepository struct {
	db       *gorm.DB
	remote   ImageRemote
	cacheDir string
	maxBytes int
}

func NewImageRepository(db *gorm.DB, remote ImageRemote, cacheDir string) *ImageRepository {
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return &ImageRepository{db: db, remote: remote, cacheDir: cacheDir, maxBytes: utils.MaxImageSize}
}

// SaveFromFile stores the image at path for requestID
func (r *ImageRepository) SaveFromFile(ctx context.Context, requestID int64, path string) (*models.RequestImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return r.SaveFromReader(ctx, requestID, filepath.Base(path), f)
}

// SaveFromReader reads, validates and shrinks an image, then stores it for requestID
func (r *ImageRepository) SaveFromReader(ctx context.Context, requestID int64, fileName string, src io.Reader) (*models.RequestImage, error) {
	prepared, err := r.read(src)
	if err != nil {
		return nil, err
	}

	img := &models.RequestImage{
		RequestID: requestID,
		Data:      prepared.Data,
		MimeType:  prepared.MimeType,
		FileName:  withExt(fileName, prepared.Ext),
	}
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return nil, dbError("save image", err)
	}
	return img, nil
}

func (r *ImageRepository) Get(ctx context.Context, id int64) (*models.RequestImage, error) {
	var img models.RequestImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, dbError("get image", err)
	}
	return &img, nil
}

func (r *ImageRepository) ListForRequest(ctx context.Context, requestID int64) ([]models.RequestImage, error) {
	images := make([]models.RequestImage, 0)
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Order("id ASC").Find(&images).Error; err != nil {
		return nil, dbError("list images", err)
	}
	return images, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.RequestImage{}, id)
	if res.Error != nil {
		return dbError("delete image", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("delete image", gorm.ErrRecordNotFound)
	}
	return nil
}

// ExportToCache writes the BLOB of image id to a fresh file in the cache
// directory and returns its path.
func (r *ImageRepository) ExportToCache(ctx context.Context, id int64) (string, error) {
	img, err := r.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	_, ext := utils.DetectMimeType(img.Data)
	path := filepath.Join(r.cacheDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, img.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return path, nil
}

// Upload shrinks an image and sends it to the image service
func (r *ImageRepository) Upload(ctx context.Context, entityType string, entityID int64, fileName string, src io.Reader) (*services.RemoteImage, error) {
	prepared, err := r.read(src)
	if err != nil {
		return nil, err
	}
	return r.remote.UploadImage(ctx, entityType, entityID, withExt(fileName, prepared.Ext), prepared.MimeType, prepared.Data)
}

// UploadStored sends a locally stored image to the image service under the
// remote request remoteRequestID.
func (r *ImageRepository) UploadStored(ctx context.Context, id, remoteRequestID int64) (*services.RemoteImage, error) {
	img, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.remote.UploadImage(ctx, services.EntityServiceRequest, remoteRequestID, img.FileName, img.MimeType, img.Data)
}

func (r *ImageRepository) FetchRemote(ctx context.Context, id int64) (*services.RemoteImage, error) {
	return r.remote.GetImage(ctx, id)
}

func (r *ImageRepository) ListRemote(ctx context.Context, entityType string, entityID int64) ([]services.RemoteImage, error) {
	return r.remote.ListImages(ctx, entityType, entityID)
}

func (r *ImageRepository) DeleteRemote(ctx context.Context, id int64) error {
	return r.remote.DeleteImage(ctx, id)
}

func (r *ImageRepository) read(src io.Reader) (*utils.PreparedImage, error) {
	data, err := io.ReadAll(io.LimitReader(src, utils.MaxSourceImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return utils.PrepareImage(data, r.maxBytes)
}

// withExt makes fileName end in ext, which changes when an image is re-encoded
func withExt(fileName, ext string) string {
	if fileName == "" {
		fileName = "imagen"
	}
	if ext == "" || strings.EqualFold(filepath.Ext(fileName), ext) {
		return fileName
	}
	if ext == ".jpg" && strings.EqualFold(filepath.Ext(fileName), ".jpeg") {
		return fileName
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ext
}
