package controllers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
)

// UploadImage handles POST /api/images - stores a base64 encoded image for an entity.
// Images over utils.MaxImageSize are recompressed before they are stored.
func UploadImage(c *gin.Context) {
	var req services.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATA", "Image data must be base64 encoded")
		return
	}

	prepared, ok := prepareImage(c, raw)
	if !ok {
		return
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = "image" + prepared.Ext
	} else if filepath.Ext(fileName) != prepared.Ext {
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + prepared.Ext
	}

	img := models.Image{
		EntityType: strings.TrimSpace(req.EntityType),
		EntityID:   req.EntityID,
		FileName:   filepath.Base(fileName),
		MimeType:   prepared.MimeType,
		Size:       int64(len(prepared.Data)),
	}

	images := services.GetImageService()
	if err := images.Store(c.Request.Context(), &img, prepared.Data); err != nil {
		log.Printf("Failed to store image for %s %d: %v", img.EntityType, img.EntityID, err)
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store image")
		return
	}

	if err := config.GetDB().Create(&img).Error; err != nil {
		if removeErr := images.Remove(c.Request.Context(), &img); removeErr != nil {
			log.Printf("Failed to clean up stored image: %v", removeErr)
		}
		respondDatabaseError(c, "Failed to save image")
		return
	}

	respondData(c, http.StatusCreated, imageDTO(c, img, false))
}

// GetImage handles GET /api/images/:id - returns the image with its bytes
func GetImage(c *gin.Context) {
	img, ok := loadImage(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, imageDTO(c, *img, true))
}

// ListImagesByEntity handles GET /api/images/entity/:entityType/:entityId - returns
// metadata and download URLs, without the bytes
func ListImagesByEntity(c *gin.Context) {
	entityID, ok := idParam(c, "entityId")
	if !ok {
		return
	}

	var images []models.Image
	err := config.GetDB().
		Where("entity_type = ? AND entity_id = ?", c.Param("entityType"), entityID).
		Order("id").
		Find(&images).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve images")
		return
	}

	out := make([]services.ImageDTO, 0, len(images))
	for _, img := range images {
		out = append(out, imageDTO(c, img, false))
	}
	respondData(c, http.StatusOK, out)
}

// DeleteImage handles DELETE /api/images/:id
func DeleteImage(c *gin.Context) {
	img, ok := loadImage(c)
	if !ok {
		return
	}

	if err := services.GetImageService().Remove(c.Request.Context(), img); err != nil {
		log.Printf("Failed to remove stored bytes of image %d: %v", img.ID, err)
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete image")
		return
	}
	if err := config.GetDB().Delete(img).Error; err != nil {
		respondDatabaseError(c, "Failed to delete image")
		return
	}
	respondMessage(c, "Image deleted successfully")
}

func loadImage(c *gin.Context) (*models.Image, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var img models.Image
	if err := config.GetDB().First(&img, id).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found")
			return nil, false
		}
		respondDatabaseError(c, "Failed to retrieve image")
		return nil, false
	}
	return &img, true
}

// imageDTO builds the wire shape of img. When withData is set the bytes are
// loaded and base64 encoded; a failure to load them is logged and the URL is
// still returned.
func imageDTO(c *gin.Context, img models.Image, withData bool) services.ImageDTO {
	images := services.GetImageService()
	dto := services.ImageDTO{
		ID:         img.ID,
		EntityType: img.EntityType,
		EntityID:   img.EntityID,
		FileName:   img.FileName,
		MimeType:   img.MimeType,
		Size:       img.Size,
		CreatedAt:  img.CreatedAt,
	}

	url, err := images.URL(c.Request.Context(), &img)
	if err != nil {
		log.Printf("Failed to build URL for image %d: %v", img.ID, err)
	}
	dto.URL = url

	if withData {
		data, err := images.Load(c.Request.Context(), &img)
		if err != nil {
			log.Printf("Failed to load image %d: %v", img.ID, err)
		} else {
			dto.Data = base64.StdEncoding.EncodeToString(data)
		}
	}
	return dto
}

// prepareImage validates and shrinks raw. On failure it has already written
// the error response.
func prepareImage(c *gin.Context, raw []byte) (*utils.PreparedImage, bool) {
	prepared, err := utils.PrepareImage(raw, utils.MaxImageSize)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to process image")
		return nil, false
	}
	return prepared, true
}
