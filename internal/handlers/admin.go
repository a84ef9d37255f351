package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
)

// GetAdminStats returns the dashboard counters: today's reservations,
// cancellation requests awaiting review, and confirmed revenue.
func GetAdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		today := time.Now().Format("2006-01-02")

		var todayReservations int64
		if err := db.Model(&models.Booking{}).
			Where("to_char(booking_date, 'YYYY-MM-DD') = ?", today).
			Count(&todayReservations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}

		var pendingCancellations int64
		if err := db.Model(&models.Booking{}).
			Where("status = ?", models.BookingStatusCancellationPending).
			Count(&pendingCancellations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}

		var revenue float64
		if err := db.Model(&models.Booking{}).
			Select("COALESCE(SUM(schedules.price * bookings.passengers), 0)").
			Joins("JOIN schedules ON bookings.schedule_id = schedules.id").
			Where("bookings.status = ?", models.BookingStatusConfirmed).
			Scan(&revenue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}

		c.JSON(200, gin.H{
			"todayReservations":    todayReservations,
			"pendingCancellations": pendingCancellations,
			"revenue":              revenue,
		})
	}
}

// GetActivityLogs returns the latest 50 admin actions.
func GetActivityLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var logs []models.ActivityLog
		if err := db.Preload("Admin").
			Order("timestamp DESC").
			Limit(50).
			Find(&logs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch logs"})
			return
		}

		out := make([]gin.H, 0, len(logs))
		for _, l := range logs {
			out = append(out, gin.H{
				"id":        l.ID,
				"action":    l.Action,
				"details":   l.Details,
				"timestamp": l.Timestamp,
				"adminName": l.Admin.Username,
			})
		}
		c.JSON(200, out)
	}
}
