package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/booking"
)

type CreateHotelBookingInput struct {
	HotelID      uint      `json:"hotelId" binding:"required"`
	CheckIn      time.Time `json:"checkIn" binding:"required"`
	CheckOut     time.Time `json:"checkOut" binding:"required"`
	Guests       int       `json:"guests" binding:"required,min=1"`
	ContactName  string    `json:"contactName" binding:"required"`
	ContactPhone string    `json:"contactPhone" binding:"required"`
	TotalPrice   float64   `json:"totalPrice"`
}

// CreateHotelBooking files a reservation request; it stays pending until an
// admin decision.
func CreateHotelBooking(svc *booking.HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateHotelBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing required fields"})
			return
		}

		hb, err := svc.Reserve(c.Request.Context(), booking.ReserveHotelInput{
			UserID:       userId,
			HotelID:      input.HotelID,
			CheckIn:      input.CheckIn,
			CheckOut:     input.CheckOut,
			Guests:       input.Guests,
			ContactName:  input.ContactName,
			ContactPhone: input.ContactPhone,
			TotalPrice:   input.TotalPrice,
		})
		if err != nil {
			respondBookingError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"message":   "Reservation requested. Waiting for admin approval.",
			"bookingId": hb.ID,
		})
	}
}

func GetMyHotelBookings(svc *booking.HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookings, err := svc.ListMine(c.Request.Context(), userId)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, bookings)
	}
}

func GetPendingHotelBookings(svc *booking.HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.ListPending(c.Request.Context())
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, bookings)
	}
}

func ApproveHotelBooking(svc *booking.HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminId := c.GetUint("userId")
		id, ok := paramID(c)
		if !ok {
			return
		}

		if _, err := svc.Approve(c.Request.Context(), id, adminId); err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Reservation confirmed"})
	}
}

func RejectHotelBooking(svc *booking.HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminId := c.GetUint("userId")
		id, ok := paramID(c)
		if !ok {
			return
		}

		var input CancelInput
		_ = c.ShouldBindJSON(&input)

		if _, err := svc.Reject(c.Request.Context(), id, adminId, input.Reason); err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Reservation rejected"})
	}
}
