package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qrnglabs/quantum-rng/internal/config"
	"github.com/qrnglabs/quantum-rng/internal/models"
)

func validRole(r models.AdminUserRole) bool {
	switch r {
	case models.RoleAdmin, models.RoleOperator, models.RoleAuditor:
		return true
	}
	return false
}

// CreateUser creates a new admin user.
func CreateUser(c *gin.Context) {
	if !requireDB(c) {
		return
	}

	var input struct {
		Username string               `json:"username" binding:"required"`
		Email    string               `json:"email" binding:"required,email"`
		Password string               `json:"password" binding:"required,min=8"`
		Role     models.AdminUserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if !validRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	newUser := models.AdminUser{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         input.Role,
		Status:       models.StatusActive,
	}
	if err := config.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user: " + err.Error()})
		return
	}
	newUser.PasswordHash = ""
	c.JSON(http.StatusCreated, newUser)
}

// ListUsers returns all admin users.
func ListUsers(c *gin.Context) {
	if !requireDB(c) {
		return
	}

	var users []models.AdminUser
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users: " + err.Error()})
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser updates role, status, or password of an existing user.
func UpdateUser(c *gin.Context) {
	if !requireDB(c) {
		return
	}

	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID"})
		return
	}

	var existing models.AdminUser
	if err := config.DB.First(&existing, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error: " + err.Error()})
		}
		return
	}

	var payload struct {
		Role     models.AdminUserRole `json:"role,omitempty"`
		Status   models.UserStatus    `json:"status,omitempty"`
		Password string               `json:"password,omitempty"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	if payload.Role != "" {
		if !validRole(payload.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		existing.Role = payload.Role
	}
	if payload.Status != "" {
		switch payload.Status {
		case models.StatusActive, models.StatusInactive:
			existing.Status = payload.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}
	if payload.Password != "" {
		if len(payload.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password too short"})
			return
		}
		h, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash new password"})
			return
		}
		existing.PasswordHash = string(h)
	}

	if err := config.DB.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update: " + err.Error()})
		return
	}
	existing.PasswordHash = ""
	c.JSON(http.StatusOK, existing)
}

// DeleteUser removes a user by ID.
func DeleteUser(c *gin.Context) {
	if !requireDB(c) {
		return
	}

	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID"})
		return
	}
	if err := config.DB.Delete(&models.AdminUser{}, "id = ?", uid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
