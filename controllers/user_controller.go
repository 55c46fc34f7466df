package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/middleware"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// RegisterUser handles POST /api/users - creates an account with a password
func RegisterUser(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	role := models.RoleClient
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be CLIENT or MECHANIC")
			return
		}
		role = parsed
	}
	if role == models.RoleAdmin {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Administrator accounts cannot be self-registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	user := models.User{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Role:  role,
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Credential{UserID: user.ID, PasswordHash: hash}).Error
	})
	if err != nil {
		if isDuplicate(err) {
			respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this email already exists")
			return
		}
		respondDatabaseError(c, "Failed to create user")
		return
	}

	respondData(c, http.StatusCreated, services.UserToDTO(user))
}

// Login handles POST /api/users/login - checks the password and issues a session token
func Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		respondDatabaseError(c, "Failed to look up user")
		return
	}

	var cred models.Credential
	if err := db.First(&cred, "user_id = ?", user.ID).Error; err != nil || !utils.CheckPassword(cred.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	token, err := middleware.IssueToken(config.GetConfig(), user)
	if err != nil {
		log.Printf("Failed to issue token for user %d: %v", user.ID, err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session token")
		return
	}

	respondData(c, http.StatusOK, services.LoginResponse{Token: token, User: services.UserToDTO(user)})
}

// ListUsers handles GET /api/users - lists every user (administrators only)
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().Order("id").Find(&users).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve users")
		return
	}

	out := make([]services.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, services.UserToDTO(u))
	}
	respondData(c, http.StatusOK, out)
}

// GetUser handles GET /api/users/:id
func GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.GetDB().First(&user, id).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		respondDatabaseError(c, "Failed to retrieve user")
		return
	}
	respondData(c, http.StatusOK, services.UserToDTO(user))
}

// GetUserByEmail handles GET /api/users/email/:email
func GetUserByEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))

	var user models.User
	if err := config.GetDB().Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		respondDatabaseError(c, "Failed to retrieve user")
		return
	}
	respondData(c, http.StatusOK, services.UserToDTO(user))
}

// UpdateUser handles PUT /api/users/:id - only the user or an administrator may
// change a profile, and only an administrator may change a role
func UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, id) {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if isNotFound(err) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		respondDatabaseError(c, "Failed to retrieve user")
		return
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		user.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Role != "" {
		role, err := models.ParseRole(req.Role)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role")
			return
		}
		if role != user.Role {
			if callerRole, _ := middleware.GetRole(c); callerRole != models.RoleAdmin {
				respondError(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can change roles")
				return
			}
			user.Role = role
		}
	}

	if err := db.Save(&user).Error; err != nil {
		if isDuplicate(err) {
			respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this email already exists")
			return
		}
		respondDatabaseError(c, "Failed to update user")
		return
	}
	respondData(c, http.StatusOK, services.UserToDTO(user))
}

// DeleteUser handles DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, id) {
		return
	}

	db := config.GetDB()
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		respondDatabaseError(c, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if err := db.Delete(&models.Credential{}, "user_id = ?", id).Error; err != nil {
		log.Printf("Failed to delete credential of user %d: %v", id, err)
	}
	respondMessage(c, "User deleted successfully")
}
