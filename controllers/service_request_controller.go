package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"gorm.io/gorm"
)

// CreateServiceRequest handles POST /api/service-requests - a client opens a
// pending request for themselves
func CreateServiceRequest(c *gin.Context) {
	var req services.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if !requireSelfOrAdmin(c, req.UserID) {
		return
	}

	db := config.GetDB()
	var owner models.User
	if err := db.First(&owner, req.UserID).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusBadRequest, "USER_NOT_FOUND", "The request owner does not exist")
			return
		}
		respondDatabaseError(c, "Failed to look up user")
		return
	}

	request := models.ServiceRequest{
		UserID:        req.UserID,
		ServiceType:   strings.TrimSpace(req.ServiceType),
		VehicleInfo:   strings.TrimSpace(req.VehicleInfo),
		Description:   strings.TrimSpace(req.Description),
		Status:        models.StatusPending,
		ImageIDs:      req.ImageIDs,
		EstimatedCost: req.EstimatedCost,
		Location:      req.Location,
		Notes:         req.Notes,
	}
	if err := db.Create(&request).Error; err != nil {
		respondDatabaseError(c, "Failed to create service request")
		return
	}
	respondData(c, http.StatusCreated, services.ServiceRequestToDTO(request))
}

// GetServiceRequest handles GET /api/service-requests/:id
func GetServiceRequest(c *gin.Context) {
	request, ok := loadServiceRequest(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, services.ServiceRequestToDTO(*request))
}

// ListServiceRequests handles GET /api/service-requests
func ListServiceRequests(c *gin.Context) {
	listServiceRequests(c, config.GetDB())
}

// ListServiceRequestsByUser handles GET /api/service-requests/user/:userId
func ListServiceRequestsByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	listServiceRequests(c, config.GetDB().Where("user_id = ?", userID))
}

// ListServiceRequestsByStatus handles GET /api/service-requests/status/:status
func ListServiceRequestsByStatus(c *gin.Context) {
	status, err := models.ParseStatus(c.Param("status"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}
	listServiceRequests(c, config.GetDB().Where("status = ?", status))
}

// ListServiceRequestsByMechanic handles GET /api/service-requests/mechanic/:mechanicId
func ListServiceRequestsByMechanic(c *gin.Context) {
	mechanicID, ok := idParam(c, "mechanicId")
	if !ok {
		return
	}
	listServiceRequests(c, config.GetDB().Where("mechanic_id = ?", mechanicID))
}

// UpdateServiceRequest handles PUT /api/service-requests/:id. Only the owner or
// an admin may edit a request. A status different from the stored one must be
// a legal transition, and En Proceso is only reached through AssignMechanic.
func UpdateServiceRequest(c *gin.Context) {
	request, ok := loadServiceRequest(c)
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, request.UserID) {
		return
	}

	var req services.ServiceRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	current := request.Status
	columns := []string{"ServiceType", "Description", "VehicleInfo", "ImageIDs", "EstimatedCost", "Location", "Notes", "UpdatedAt"}
	if req.Status != "" && models.RequestStatus(req.Status) != current {
		next, err := models.ParseStatus(req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		if !checkStatusChange(c, current, next) {
			return
		}
		request.Status = next
		columns = append(columns, "Status")
	}
	if s := strings.TrimSpace(req.ServiceType); s != "" {
		request.ServiceType = s
	}
	if s := strings.TrimSpace(req.Description); s != "" {
		request.Description = s
	}
	request.VehicleInfo = req.VehicleInfo
	request.ImageIDs = req.ImageIDs
	request.EstimatedCost = req.EstimatedCost
	request.Location = req.Location
	request.Notes = req.Notes

	db := config.GetDB()
	// only the edited columns are written, and only while the status is still
	// the one read above, so a concurrent assign or status change is not lost
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", request.ID, current).
		Select(columns).
		Updates(&models.ServiceRequest{
			ServiceType:   request.ServiceType,
			Description:   request.Description,
			VehicleInfo:   request.VehicleInfo,
			ImageIDs:      request.ImageIDs,
			EstimatedCost: request.EstimatedCost,
			Location:      request.Location,
			Notes:         request.Notes,
			Status:        request.Status,
			UpdatedAt:     time.Now(),
		})
	if result.Error != nil {
		respondDatabaseError(c, "Failed to update service request")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusConflict, "CONCURRENT_UPDATE", "The service request changed while it was being updated")
		return
	}

	var updated models.ServiceRequest
	if err := db.First(&updated, request.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve service request")
		return
	}
	respondData(c, http.StatusOK, services.ServiceRequestToDTO(updated))
}

// UpdateServiceRequestStatus handles PATCH /api/service-requests/:id/status.
// The owner, the assigned mechanic or an admin may move a request along.
func UpdateServiceRequestStatus(c *gin.Context) {
	request, ok := loadServiceRequest(c)
	if !ok {
		return
	}
	if !requireParticipant(c, request) {
		return
	}

	var req services.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	next, err := models.ParseStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}
	if !checkStatusChange(c, request.Status, next) {
		return
	}

	// the status guard makes concurrent transitions from the same state
	// exclusive: only the first one wins
	result := config.GetDB().Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", request.ID, request.Status).
		Update("status", next)
	if result.Error != nil {
		respondDatabaseError(c, "Failed to update status")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", "The service request status changed in the meantime")
		return
	}

	request.Status = next
	respondData(c, http.StatusOK, services.ServiceRequestToDTO(*request))
}

// checkStatusChange writes a 409 and returns false when from -> to is not
// allowed outside AssignMechanic
func checkStatusChange(c *gin.Context, from, to models.RequestStatus) bool {
	if err := from.ValidateTransition(to); err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return false
	}
	if to == models.StatusInProgress {
		respondError(c, http.StatusConflict, "MECHANIC_REQUIRED", "A request moves to En Proceso only when a mechanic is assigned")
		return false
	}
	return true
}

// requireParticipant lets the owner, the assigned mechanic or an admin through.
// On failure it has already written the error response.
func requireParticipant(c *gin.Context, request *models.ServiceRequest) bool {
	userID, role, ok := caller(c)
	if !ok {
		return false
	}
	if userID == request.UserID || role == models.RoleAdmin {
		return true
	}
	if request.MechanicID != nil && *request.MechanicID == userID {
		return true
	}
	respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the owner or the assigned mechanic can change this request")
	return false
}

// AssignMechanic handles PATCH /api/service-requests/:id/assign - a mechanic
// takes a pending request, which moves it to En Proceso
func AssignMechanic(c *gin.Context) {
	var req services.AssignMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	request, ok := loadServiceRequest(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var mechanic models.User
	if err := db.First(&mechanic, req.MechanicID).Error; err != nil || mechanic.Role != models.RoleMechanic {
		respondError(c, http.StatusBadRequest, "INVALID_MECHANIC", "The assigned user is not a mechanic")
		return
	}

	if err := request.Status.ValidateTransition(models.StatusInProgress); err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", "Only pending requests can be assigned")
		return
	}

	name := req.MechanicName
	request.MechanicID = &mechanic.ID
	request.MechanicName = &name
	if req.EstimatedCost != nil {
		request.EstimatedCost = req.EstimatedCost
	}
	request.Status = models.StatusInProgress

	// the status guard keeps two mechanics from taking the same request
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", request.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"mechanic_id":    request.MechanicID,
			"mechanic_name":  request.MechanicName,
			"estimated_cost": request.EstimatedCost,
			"status":         request.Status,
		})
	if result.Error != nil {
		respondDatabaseError(c, "Failed to assign mechanic")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", "Only pending requests can be assigned")
		return
	}
	respondData(c, http.StatusOK, services.ServiceRequestToDTO(*request))
}

// DeleteServiceRequest handles DELETE /api/service-requests/:id
func DeleteServiceRequest(c *gin.Context) {
	request, ok := loadServiceRequest(c)
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, request.UserID) {
		return
	}
	if err := config.GetDB().Delete(request).Error; err != nil {
		respondDatabaseError(c, "Failed to delete service request")
		return
	}
	respondMessage(c, "Service request deleted successfully")
}

func loadServiceRequest(c *gin.Context) (*models.ServiceRequest, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var request models.ServiceRequest
	if err := config.GetDB().First(&request, id).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Service request not found")
			return nil, false
		}
		respondDatabaseError(c, "Failed to retrieve service request")
		return nil, false
	}
	return &request, true
}

func listServiceRequests(c *gin.Context, query *gorm.DB) {
	var requests []models.ServiceRequest
	if err := query.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve service requests")
		return
	}

	out := make([]services.ServiceRequestDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, services.ServiceRequestToDTO(r))
	}
	respondData(c, http.StatusOK, out)
}
