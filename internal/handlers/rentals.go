package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/booking"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
)

// GetRentalCars lists rental cars, optionally filtered by city substring.
func GetRentalCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.RentalCar{})
		if city := c.Query("city"); city != "" {
			query = query.Where("city ILIKE ?", "%"+city+"%")
		}

		var cars []models.RentalCar
		if err := query.Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rental cars"})
			return
		}
		c.JSON(200, cars)
	}
}

func GetRentalCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var car models.RentalCar
		if err := db.First(&car, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, car)
	}
}

func GetMyRentalBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.RentalBooking
		if err := db.Where("user_id = ?", userId).
			Preload("Car").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

type CreateRentalBookingInput struct {
	CarID            uint      `json:"carId" binding:"required"`
	StartDate        time.Time `json:"startDate" binding:"required"`
	EndDate          time.Time `json:"endDate" binding:"required"`
	TotalPrice       float64   `json:"totalPrice" binding:"required,gt=0"`
	ContactName      string    `json:"contactName" binding:"required"`
	ContactPhone     string    `json:"contactPhone" binding:"required"`
	DriverLicenseURL string    `json:"driverLicenseUrl"`
}

func CreateRentalBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateRentalBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing required fields"})
			return
		}
		if !input.EndDate.After(input.StartDate) {
			c.JSON(400, gin.H{"error": "End date must be after start date"})
			return
		}

		var car models.RentalCar
		if err := db.First(&car, input.CarID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		rb := models.RentalBooking{
			UserID:           userId,
			CarID:            input.CarID,
			StartDate:        input.StartDate,
			EndDate:          input.EndDate,
			TotalPrice:       input.TotalPrice,
			ContactName:      input.ContactName,
			ContactPhone:     booking.NormalizeContact(input.ContactPhone),
			DriverLicenseURL: input.DriverLicenseURL,
			Status:           models.RentalBookingStatusConfirmed,
		}

		if err := db.Create(&rb).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		c.JSON(201, gin.H{"message": "Rental booking created successfully", "bookingId": rb.ID})
	}
}

// CancelRentalBooking cancels immediately: no admin review and no inventory
// to return. This deliberately differs from the transport flow.
func CancelRentalBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		id, ok := paramID(c)
		if !ok {
			return
		}

		var rb models.RentalBooking
		if err := db.Where("id = ? AND user_id = ?", id, userId).First(&rb).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}
		if rb.Status == models.RentalBookingStatusCancelled {
			c.JSON(400, gin.H{"error": "Booking already cancelled"})
			return
		}

		if err := db.Model(&rb).Update("status", models.RentalBookingStatusCancelled).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		c.JSON(200, gin.H{"message": "Rental booking cancelled"})
	}
}
