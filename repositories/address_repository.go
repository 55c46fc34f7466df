package repositories

import (
	"context"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// AddressRepository stores the saved addresses of the device's users
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create saves a new address. A default address takes the flag from the others.
func (r *AddressRepository) Create(ctx context.Context, a *models.Address) error {
	if err := validateAddress(a); err != nil {
		return err
	}
	return dbError("create address", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := clearDefaultAddresses(tx, a.UserID); err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	}))
}

func (r *AddressRepository) Get(ctx context.Context, id int64) (*models.Address, error) {
	var a models.Address
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, dbError("get address", err)
	}
	return &a, nil
}

// ListByUser returns the default address first, then the rest oldest first
func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses := make([]models.Address, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at ASC").Order("id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, dbError("list addresses", err)
	}
	return addresses, nil
}

// Update saves the editable fields of a. The default flag goes through SetDefault.
func (r *AddressRepository) Update(ctx context.Context, a *models.Address) error {
	if err := validateAddress(a); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.Address{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{"label": a.Label, "street": a.Street, "city": a.City, "details": a.Details})
	if res.Error != nil {
		return dbError("update address", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("update address", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Address{}, id)
	if res.Error != nil {
		return dbError("delete address", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbError("delete address", gorm.ErrRecordNotFound)
	}
	return nil
}

// SetDefault makes id the only default address of userID in one transaction
func (r *AddressRepository) SetDefault(ctx context.Context, userID, id int64) error {
	return dbError("set default address", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefaultAddresses(tx, userID); err != nil {
			return err
		}
		res := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

// GetDefault returns the default address of userID, or ErrNotFound
func (r *AddressRepository) GetDefault(ctx context.Context, userID int64) (*models.Address, error) {
	var a models.Address
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&a).Error; err != nil {
		return nil, dbError("get default address", err)
	}
	return &a, nil
}

func clearDefaultAddresses(tx *gorm.DB, userID int64) error {
	return tx.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true).Update("is_default", false).Error
}

func validateAddress(a *models.Address) error {
	a.Label = strings.TrimSpace(a.Label)
	a.Street = strings.TrimSpace(a.Street)
	if msg := utils.ValidateRequired(a.Label, "nombre"); msg != "" {
		return services.NewValidationError(msg, nil)
	}
	if msg := utils.ValidateRequired(a.Street, "dirección"); msg != "" {
		return services.NewValidationError(msg, nil)
	}
	return nil
}
