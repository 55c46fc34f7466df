package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// DraftRequestRepository manages the older service_request table. Drafts
// written there are promoted into remote service requests so both request
// paths end in the same place.
type DraftRequestRepository struct {
	db       *gorm.DB
	requests *ServiceRequestRepository
}

func NewDraftRequestRepository(db *gorm.DB, requests *ServiceRequestRepository) *DraftRequestRepository {
	return &DraftRequestRepository{db: db, requests: requests}
}

func (r *DraftRequestRepository) Create(ctx context.Context, d *models.ServiceRequestDraft) error {
	if msg := utils.ValidateRequired(d.ServiceType, "tipo de servicio"); msg != "" {
		return services.NewValidationError(msg, nil)
	}
	return dbError("create draft", r.db.WithContext(ctx).Create(d).Error)
}

func (r *DraftRequestRepository) ListByUser(ctx context.Context, userID int64) ([]models.ServiceRequestDraft, error) {
	drafts := make([]models.ServiceRequestDraft, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&drafts).Error; err != nil {
		return nil, dbError("list drafts", err)
	}
	return drafts, nil
}

func (r *DraftRequestRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.ServiceRequestDraft{}, id)
	if res.Error != nil {
		return dbError("delete draft", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("delete draft", gorm.ErrRecordNotFound)
	}
	return nil
}

// Promote creates a remote service request from draft id and deletes the
// draft once the remote request exists.
func (r *DraftRequestRepository) Promote(ctx context.Context, id int64, vehicleInfo string) (*models.ServiceRequest, error) {
	var d models.ServiceRequestDraft
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, dbError("get draft", err)
	}

	created, err := r.requests.Create(ctx, services.CreateServiceRequestRequest{
		UserID:      d.UserID,
		ServiceType: d.ServiceType,
		VehicleInfo: vehicleInfo,
		Description: d.Description,
		Location:    d.Address,
		Notes:       draftNotes(d),
	})
	if err != nil {
		return nil, err
	}

	if err := r.Delete(ctx, d.ID); err != nil {
		return created, fmt.Errorf("request %d created but draft %d was kept: %w", created.ID, d.ID, err)
	}
	return created, nil
}

func draftNotes(d models.ServiceRequestDraft) string {
	var notes []string
	if d.Urgent {
		notes = append(notes, "Urgente")
	}
	if d.NeedsTow {
		notes = append(notes, "Requiere grúa")
	}
	return strings.Join(notes, ", ")
}
