package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, user)
	}
}

type UpdateProfileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Name != "" {
			user.Name = input.Name
		}
		if input.Phone != "" {
			user.Phone = input.Phone
		}
		if input.Address != "" {
			user.Address = input.Address
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, user)
	}
}

// ListMechanics returns the users a request can be assigned to.
func ListMechanics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var mechanics []models.User
		if err := db.Where("role IN ?", []models.Role{models.RoleMechanic, models.RoleAdmin}).
			Find(&mechanics).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch mechanics"})
			return
		}

		c.JSON(200, mechanics)
	}
}
