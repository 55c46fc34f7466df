package repositories

import (
	"context"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// RequestHistoryRepository stores the requests made from this device
type RequestHistoryRepository struct {
	db *gorm.DB
}

func NewRequestHistoryRepository(db *gorm.DB) *RequestHistoryRepository {
	return &RequestHistoryRepository{db: db}
}

// Create saves h as a new Pendiente request
func (r *RequestHistoryRepository) Create(ctx context.Context, h *models.RequestHistory) error {
	if msg := utils.ValidateRequired(h.ServiceType, "tipo de servicio"); msg != "" {
		return services.NewValidationError(msg, nil)
	}
	h.Status = models.StatusPending
	return dbError("create request", r.db.WithContext(ctx).Omit("Images").Create(h).Error)
}

// Get returns a request with its images
func (r *RequestHistoryRepository) Get(ctx context.Context, id int64) (*models.RequestHistory, error) {
	var h models.RequestHistory
	if err := r.db.WithContext(ctx).Preload("Images").First(&h, id).Error; err != nil {
		return nil, dbError("get request", err)
	}
	return &h, nil
}

// ListByUser returns the requests of userID, newest first, without image data
func (r *RequestHistoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.RequestHistory, error) {
	history := make([]models.RequestHistory, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&history).Error
	if err != nil {
		return nil, dbError("list requests", err)
	}
	return history, nil
}

// UpdateStatus applies the transition table inside one transaction
func (r *RequestHistoryRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h models.RequestHistory
		if err := tx.First(&h, id).Error; err != nil {
			return dbError("get request", err)
		}
		if err := checkTransition(h.Status, status); err != nil {
			return err
		}
		return dbError("update request status", tx.Model(&h).Update("status", status).Error)
	})
}

// LinkRemote records the id the request got on the service-request service
func (r *RequestHistoryRepository) LinkRemote(ctx context.Context, id, remoteID int64) error {
	res := r.db.WithContext(ctx).Model(&models.RequestHistory{}).Where("id = ?", id).Update("remote_id", remoteID)
	if res.Error != nil {
		return dbError("link request", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("link request", gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a request; its images go with it
func (r *RequestHistoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.RequestHistory{}, id)
	if res.Error != nil {
		return dbError("delete request", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("delete request", gorm.ErrRecordNotFound)
	}
	return nil
}
