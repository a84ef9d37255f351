package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/booking"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"github.com/kwesiamoo/travelhub-backend/pkg/utils"
)

// respondBookingError translates lifecycle errors to HTTP responses. Unknown
// errors become a generic 500 so datastore details never reach the caller.
func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidPassengerCount),
		errors.Is(err, booking.ErrInvalidGuestCount),
		errors.Is(err, booking.ErrInvalidDateRange):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInsufficientSeats):
		c.JSON(400, gin.H{"error": "Not enough seats available"})
	case errors.Is(err, booking.ErrInvalidState):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(403, gin.H{"error": "Unauthorized"})
	case errors.Is(err, booking.ErrScheduleNotFound):
		c.JSON(404, gin.H{"error": "Schedule not found"})
	case errors.Is(err, booking.ErrHotelNotFound):
		c.JSON(404, gin.H{"error": "Hotel not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(404, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking.ErrCheckInMismatch):
		c.JSON(404, gin.H{"error": "Booking not found or details incorrect"})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

type CreateBookingInput struct {
	ScheduleID   uint   `json:"scheduleId" binding:"required"`
	Passengers   int    `json:"passengers" binding:"required,min=1"`
	ContactName  string `json:"contactName" binding:"required"`
	ContactPhone string `json:"contactPhone" binding:"required"`
}

// CreateBooking reserves seats on a schedule through the lifecycle service.
func CreateBooking(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing required fields"})
			return
		}

		b, err := svc.Reserve(c.Request.Context(), booking.ReserveInput{
			UserID:       userId,
			ScheduleID:   input.ScheduleID,
			Passengers:   input.Passengers,
			ContactName:  input.ContactName,
			ContactPhone: input.ContactPhone,
		})
		if err != nil {
			respondBookingError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"message":   "Booking successful",
			"bookingId": b.ID,
			"reference": b.Reference,
		})
	}
}

// GetMyBookings lists the caller's bookings with schedule details.
func GetMyBookings(svc *booking.Service) gin.HandlerFunc {
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

type CancelInput struct {
	Reason string `json:"reason"`
}

// RequestCancellation moves a confirmed booking into the admin review queue.
func RequestCancellation(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		id, ok := paramID(c)
		if !ok {
			return
		}

		var input CancelInput
		_ = c.ShouldBindJSON(&input)

		if _, err := svc.RequestCancellation(c.Request.Context(), id, userId, input.Reason); err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Cancellation requested. Waiting for admin approval."})
	}
}

// GetPendingBookings lists bookings awaiting an admin decision.
func GetPendingBookings(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.ListPending(c.Request.Context())
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(200, bookings)
	}
}

// ApproveBooking finalizes a reviewed booking back to confirmed.
func ApproveBooking(svc *booking.Service) gin.HandlerFunc {
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
		c.JSON(200, gin.H{"message": "Booking approved"})
	}
}

// RejectBooking rejects a booking and returns its seats to the schedule.
func RejectBooking(svc *booking.Service) gin.HandlerFunc {
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
		c.JSON(200, gin.H{"message": "Booking rejected and seats returned"})
	}
}

type CheckInInput struct {
	BookingID uint   `json:"bookingId" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
}

// CheckIn is the public check-in endpoint. It sits behind a per-IP rate
// limit because the contact phone acts as a weak credential here.
func CheckIn(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckInInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing required fields"})
			return
		}

		seat, b, err := svc.CheckIn(c.Request.Context(), input.BookingID, input.Contact)
		if err != nil {
			respondBookingError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"message": "Check-in Successful!",
			"seat":    seat,
			"booking": b,
		})
	}
}

// GetBookingTicket renders the e-ticket PDF for a confirmed booking owned by
// the caller (admins may fetch any).
func GetBookingTicket(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		admin := c.GetString("userRole") == string(models.UserRoleAdmin)
		id, ok := paramID(c)
		if !ok {
			return
		}

		b, err := svc.GetOwned(c.Request.Context(), id, userId, admin)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		if b.Status != models.BookingStatusConfirmed {
			c.JSON(400, gin.H{"error": "Ticket available for confirmed bookings only"})
			return
		}

		pdf, err := utils.BuildTicketPDF(utils.TicketData{
			BookingID:    b.ID,
			Reference:    b.Reference,
			Passenger:    b.ContactName,
			ContactPhone: b.ContactPhone,
			Source:       b.Schedule.Source,
			Destination:  b.Schedule.Destination,
			Departure:    b.Schedule.DepartureTime,
			Passengers:   b.Passengers,
			Seat:         booking.SeatAssignment(b.ID),
			Price:        b.Schedule.Price,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate ticket"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="eticket.pdf"`)
		c.Data(200, "application/pdf", pdf)
	}
}
