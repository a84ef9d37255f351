package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
)

// GetSchedules lists bookable schedules. source/destination filter by
// substring, date by day prefix on the departure time.
func GetSchedules(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Schedule{}).Where("available_seats > 0")

		if source := c.Query("source"); source != "" {
			query = query.Where("source ILIKE ?", "%"+source+"%")
		}
		if destination := c.Query("destination"); destination != "" {
			query = query.Where("destination ILIKE ?", "%"+destination+"%")
		}
		if date := c.Query("date"); date != "" {
			query = query.Where("to_char(departure_time, 'YYYY-MM-DD') = ?", date)
		}

		var schedules []models.Schedule
		if err := query.Order("departure_time ASC").Find(&schedules).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch schedules"})
			return
		}
		c.JSON(200, schedules)
	}
}

type CreateScheduleInput struct {
	Source         string    `json:"source" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
	DepartureTime  time.Time `json:"departureTime" binding:"required"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price" binding:"required,gt=0"`
	AvailableSeats int       `json:"availableSeats" binding:"required,min=1"`
}

// CreateSchedule is the admin create path. The initial seat count becomes
// the schedule's fixed capacity.
func CreateSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateScheduleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing fields"})
			return
		}

		schedule := models.Schedule{
			Source:         input.Source,
			Destination:    input.Destination,
			DepartureTime:  input.DepartureTime,
			ArrivalTime:    input.ArrivalTime,
			Price:          input.Price,
			AvailableSeats: input.AvailableSeats,
			Capacity:       input.AvailableSeats,
		}

		if err := db.Create(&schedule).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create schedule"})
			return
		}

		c.JSON(201, gin.H{"id": schedule.ID, "message": "Schedule created"})
	}
}

func DeleteSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		adminId := c.GetUint("userId")

		res := db.Delete(&models.Schedule{}, id)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete schedule"})
			return
		}

		db.Create(&models.ActivityLog{
			AdminID:   adminId,
			Action:    "DELETE_SCHEDULE",
			Details:   fmt.Sprintf("Deleted Schedule ID: %d", id),
			Timestamp: time.Now(),
		})

		c.JSON(200, gin.H{"message": "Schedule deleted", "changes": res.RowsAffected})
	}
}
