package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// MechanicRepository stores the mechanics saved on the device
type MechanicRepository struct {
	db *gorm.DB
}

func NewMechanicRepository(db *gorm.DB) *MechanicRepository {
	return &MechanicRepository{db: db}
}

func (r *MechanicRepository) Create(ctx context.Context, m *models.Mechanic) error {
	m.Name = strings.TrimSpace(m.Name)
	if msg := utils.ValidateRequired(m.Name, "nombre"); msg != "" {
		return services.NewValidationError(msg, nil)
	}
	return dbError("create mechanic", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsPreferred {
			if err := clearPreferredMechanics(tx); err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	}))
}

// SaveRemote stores a mechanic account from the user service, keyed by its remote id
func (r *MechanicRepository) SaveRemote(ctx context.Context, user models.User) (*models.Mechanic, error) {
	var existing models.Mechanic
	err := r.db.WithContext(ctx).Where("remote_id = ?", user.ID).First(&existing).Error
	if err == nil {
		existing.Name, existing.Phone = user.Name, user.Phone
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, dbError("save mechanic", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError("find mechanic", err)
	}

	remoteID := user.ID
	m := models.Mechanic{RemoteID: &remoteID, Name: user.Name, Phone: user.Phone, Available: true}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, dbError("save mechanic", err)
	}
	return &m, nil
}

func (r *MechanicRepository) Get(ctx context.Context, id int64) (*models.Mechanic, error) {
	var m models.Mechanic
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, dbError("get mechanic", err)
	}
	return &m, nil
}

// List returns every saved mechanic, preferred first, then best rated
func (r *MechanicRepository) List(ctx context.Context) ([]models.Mechanic, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *MechanicRepository) ListAvailable(ctx context.Context) ([]models.Mechanic, error) {
	return r.find(r.db.WithContext(ctx).Where("available = ?", true))
}

func (r *MechanicRepository) find(q *gorm.DB) ([]models.Mechanic, error) {
	mechanics := make([]models.Mechanic, 0)
	if err := q.Order("is_preferred DESC").Order("rating DESC").Order("id ASC").Find(&mechanics).Error; err != nil {
		return nil, dbError("list mechanics", err)
	}
	return mechanics, nil
}

func (r *MechanicRepository) Update(ctx context.Context, m *models.Mechanic) error {
	res := r.db.WithContext(ctx).Model(&models.Mechanic{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":      m.Name,
		"specialty": m.Specialty,
		"phone":     m.Phone,
		"rating":    m.Rating,
		"available": m.Available,
	})
	if res.Error != nil {
		return dbError("update mechanic", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("update mechanic", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *MechanicRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Mechanic{}, id)
	if res.Error != nil {
		return dbError("delete mechanic", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("delete mechanic", gorm.ErrRecordNotFound)
	}
	return nil
}

// SetPreferred makes id the only preferred mechanic in one transaction
func (r *MechanicRepository) SetPreferred(ctx context.Context, id int64) error {
	return dbError("set preferred mechanic", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearPreferredMechanics(tx); err != nil {
			return err
		}
		res := tx.Model(&models.Mechanic{}).Where("id = ?", id).Update("is_preferred", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

// GetPreferred returns the preferred mechanic, or ErrNotFound
func (r *MechanicRepository) GetPreferred(ctx context.Context) (*models.Mechanic, error) {
	var m models.Mechanic
	if err := r.db.WithContext(ctx).Where("is_preferred = ?", true).First(&m).Error; err != nil {
		return nil, dbError("get preferred mechanic", err)
	}
	return &m, nil
}

func clearPreferredMechanics(tx *gorm.DB) error {
	return tx.Model(&models.Mechanic{}).Where("is_preferred = ?", true).Update("is_preferred", false).Error
}
