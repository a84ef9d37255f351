package booking

import "errors"

var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrHotelNotFound         = errors.New("hotel not found")
	ErrInsufficientSeats     = errors.New("not enough seats available")
	ErrInvalidPassengerCount = errors.New("passenger count must be at least 1")
	ErrInvalidGuestCount     = errors.New("guest count must be at least 1")
	ErrInvalidDateRange      = errors.New("check-out must be after check-in")
	ErrInvalidState          = errors.New("invalid booking state for this transition")
	ErrForbidden             = errors.New("booking belongs to another user")
	ErrCheckInMismatch       = errors.New("booking not found or details incorrect")
)
