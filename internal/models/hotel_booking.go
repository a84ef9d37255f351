package models

import (
	"time"

	"gorm.io/gorm"
)

type HotelBookingStatus string

const (
	HotelBookingStatusPending   HotelBookingStatus = "pending"
	HotelBookingStatusConfirmed HotelBookingStatus = "confirmed"
	HotelBookingStatusRejected  HotelBookingStatus = "rejected"
)

// HotelBooking is a room reservation awaiting admin review. Unlike transport
// bookings there is no unit inventory to decrement; the record starts pending
// and an admin decision moves it to confirmed or rejected.
type HotelBooking struct {
	gorm.Model
	UserID          uint               `json:"userId" gorm:"not null;index"`
	User            User               `json:"-"`
	HotelID         uint               `json:"hotelId" gorm:"not null;index"`
	Hotel           Hotel              `json:"hotel"`
	CheckIn         time.Time          `json:"checkIn" gorm:"not null"`
	CheckOut        time.Time          `json:"checkOut" gorm:"not null"`
	Guests          int                `json:"guests" gorm:"not null;default:1"`
	ContactName     string             `json:"contactName"`
	ContactPhone    string             `json:"contactPhone"`
	TotalPrice      float64            `json:"totalPrice"`
	Status          HotelBookingStatus `json:"status" gorm:"not null;default:pending"`
	RejectionReason string             `json:"rejectionReason"`
}
