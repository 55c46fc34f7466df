package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/middleware"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"gorm.io/gorm"
)

// respondData writes a success envelope carrying data
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondMessage writes a success envelope without data
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// respondError writes an error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func respondDatabaseError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
}

// idParam parses the named path parameter as a positive id. On failure it has
// already written a 400 response.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// caller returns the id and role of the authenticated user. On failure it has
// already written a 401 response.
func caller(c *gin.Context) (int64, models.Role, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, "", false
	}
	role, err := middleware.GetRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, "", false
	}
	return userID, role, true
}

// requireSelfOrAdmin lets the owner of a resource or an administrator through.
// On failure it has already written the error response.
func requireSelfOrAdmin(c *gin.Context, ownerID int64) bool {
	userID, role, ok := caller(c)
	if !ok {
		return false
	}
	if userID != ownerID && role != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You can only access your own resources")
		return false
	}
	return true
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
