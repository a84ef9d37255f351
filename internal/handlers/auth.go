package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"github.com/kwesiamoo/travelhub-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Hash the password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:     input.Username,
			PasswordHash: string(hashedPassword),
			Role:         string(models.UserRoleUser), // New accounts always start as plain users
			FullName:     input.FullName,
			Phone:        input.Phone,
		}

		if result := db.Create(&user); result.Error != nil {
			if strings.Contains(result.Error.Error(), "duplicate") || strings.Contains(result.Error.Error(), "unique") {
				c.JSON(400, gin.H{"error": "Username already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(201, gin.H{
			"message": "User registered successfully",
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("username = ?", input.Username).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token":    token,
			"role":     user.Role,
			"username": user.Username,
		})
	}
}

type UpdateProfileInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"full_name": input.FullName,
			"phone":     input.Phone,
		}
		if input.Password != "" {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
			updates["password_hash"] = string(hashedPassword)
		}

		if err := db.Model(&models.User{}).Where("id = ?", userId).Updates(updates).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch profile"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Profile updated",
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"role":     user.Role,
				"fullName": user.FullName,
				"phone":    user.Phone,
			},
		})
	}
}

// --- Admin User Management ---

func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(200, users)
	}
}

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

func UpdateUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		adminId := c.GetUint("userId")

		var input UpdateRoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		res := db.Model(&models.User{}).Where("id = ?", id).Update("role", input.Role)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update role"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		db.Create(&models.ActivityLog{
			AdminID:   adminId,
			Action:    "UPDATE_ROLE",
			Details:   fmt.Sprintf("Updated user %s role to %s", id, input.Role),
			Timestamp: time.Now(),
		})

		c.JSON(200, gin.H{"message": "Role updated"})
	}
}

func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		adminId := c.GetUint("userId")

		res := db.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete user"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		db.Create(&models.ActivityLog{
			AdminID:   adminId,
			Action:    "DELETE_USER",
			Details:   fmt.Sprintf("Deleted user %s", id),
			Timestamp: time.Now(),
		})

		c.JSON(200, gin.H{"message": "User deleted"})
	}
}
