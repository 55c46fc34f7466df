package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// CreateVehicle handles POST /api/vehicles. A vehicle created as default takes
// the flag from every other vehicle of its owner.
func CreateVehicle(c *gin.Context) {
	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if !requireSelfOrAdmin(c, req.UserID) {
		return
	}

	vehicle := models.Vehicle{
		UserID:    req.UserID,
		Brand:     strings.TrimSpace(req.Brand),
		Model:     strings.TrimSpace(req.Model),
		Year:      req.Year,
		Plate:     utils.NormalizePlate(req.Plate),
		Color:     strings.TrimSpace(req.Color),
		IsDefault: req.IsDefault,
	}
	if len(req.Image) > 0 {
		prepared, ok := prepareImage(c, req.Image)
		if !ok {
			return
		}
		vehicle.Image = prepared.Data
	}

	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		if vehicle.IsDefault {
			if err := clearDefaults(tx, vehicle.UserID); err != nil {
				return err
			}
		}
		return tx.Create(&vehicle).Error
	})
	if err != nil {
		if isDuplicate(err) {
			respondError(c, http.StatusConflict, "PLATE_EXISTS", "A vehicle with this plate is already registered")
			return
		}
		respondDatabaseError(c, "Failed to create vehicle")
		return
	}
	respondData(c, http.StatusCreated, services.VehicleToDTO(vehicle))
}

// GetVehicle handles GET /api/vehicles/:id
func GetVehicle(c *gin.Context) {
	vehicle, ok := loadVehicle(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, services.VehicleToDTO(*vehicle))
}

// ListVehiclesByUser handles GET /api/vehicles/user/:userId
func ListVehiclesByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var vehicles []models.Vehicle
	if err := config.GetDB().Where("user_id = ?", userID).Order("id").Find(&vehicles).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve vehicles")
		return
	}

	out := make([]services.VehicleDTO, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, services.VehicleToDTO(v))
	}
	respondData(c, http.StatusOK, out)
}

// UpdateVehicle handles PUT /api/vehicles/:id. A body without an image keeps
// the stored one.
func UpdateVehicle(c *gin.Context) {
	vehicle, ok := loadVehicle(c)
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, vehicle.UserID) {
		return
	}

	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	vehicle.Brand = strings.TrimSpace(req.Brand)
	vehicle.Model = strings.TrimSpace(req.Model)
	vehicle.Year = req.Year
	vehicle.Plate = utils.NormalizePlate(req.Plate)
	vehicle.Color = strings.TrimSpace(req.Color)
	vehicle.IsDefault = req.IsDefault
	if len(req.Image) > 0 {
		prepared, ok := prepareImage(c, req.Image)
		if !ok {
			return
		}
		vehicle.Image = prepared.Data
	}

	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		if vehicle.IsDefault {
			if err := clearDefaults(tx, vehicle.UserID); err != nil {
				return err
			}
		}
		return tx.Save(vehicle).Error
	})
	if err != nil {
		if isDuplicate(err) {
			respondError(c, http.StatusConflict, "PLATE_EXISTS", "A vehicle with this plate is already registered")
			return
		}
		respondDatabaseError(c, "Failed to update vehicle")
		return
	}
	respondData(c, http.StatusOK, services.VehicleToDTO(*vehicle))
}

// DeleteVehicle handles DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	vehicle, ok := loadVehicle(c)
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, vehicle.UserID) {
		return
	}
	if err := config.GetDB().Delete(vehicle).Error; err != nil {
		respondDatabaseError(c, "Failed to delete vehicle")
		return
	}
	respondMessage(c, "Vehicle deleted successfully")
}

// GetDefaultVehicle handles GET /api/vehicles/user/:userId/default
func GetDefaultVehicle(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.GetDB().Where("user_id = ? AND is_default = ?", userID, true).First(&vehicle).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "VEHICLE_NOT_FOUND", "User has no default vehicle")
			return
		}
		respondDatabaseError(c, "Failed to retrieve default vehicle")
		return
	}
	respondData(c, http.StatusOK, services.VehicleToDTO(vehicle))
}

// ClearDefaultVehicle handles PATCH /api/vehicles/user/:userId/default/clear
func ClearDefaultVehicle(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, userID) {
		return
	}
	if err := clearDefaults(config.GetDB(), userID); err != nil {
		respondDatabaseError(c, "Failed to clear default vehicle")
		return
	}
	respondMessage(c, "Default vehicle cleared")
}

// SetDefaultVehicle handles PATCH /api/vehicles/:id/default. Only the flag of
// this vehicle is set; callers clear the previous default first.
func SetDefaultVehicle(c *gin.Context) {
	vehicle, ok := loadVehicle(c)
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, vehicle.UserID) {
		return
	}
	if err := config.GetDB().Model(vehicle).Update("is_default", true).Error; err != nil {
		respondDatabaseError(c, "Failed to set default vehicle")
		return
	}
	vehicle.IsDefault = true
	respondData(c, http.StatusOK, services.VehicleToDTO(*vehicle))
}

// CountVehicles handles GET /api/vehicles/user/:userId/count
func CountVehicles(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var count int64
	if err := config.GetDB().Model(&models.Vehicle{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count vehicles")
		return
	}
	respondData(c, http.StatusOK, services.CountResponse{Count: count})
}

func loadVehicle(c *gin.Context) (*models.Vehicle, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var vehicle models.Vehicle
	if err := config.GetDB().First(&vehicle, id).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "VEHICLE_NOT_FOUND", "Vehicle not found")
			return nil, false
		}
		respondDatabaseError(c, "Failed to retrieve vehicle")
		return nil, false
	}
	return &vehicle, true
}

func clearDefaults(db *gorm.DB, userID int64) error {
	return db.Model(&models.Vehicle{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
