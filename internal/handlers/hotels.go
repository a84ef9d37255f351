package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
)

// GetHotels lists hotels, optionally filtered by city substring.
func GetHotels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Hotel{})
		if city := c.Query("city"); city != "" {
			query = query.Where("city ILIKE ?", "%"+city+"%")
		}

		var hotels []models.Hotel
		if err := query.Find(&hotels).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch hotels"})
			return
		}
		c.JSON(200, hotels)
	}
}

func GetHotel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var hotel models.Hotel
		if err := db.First(&hotel, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Hotel not found"})
			return
		}
		c.JSON(200, hotel)
	}
}
