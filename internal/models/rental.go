package models

import (
	"time"

	"gorm.io/gorm"
)

type RentalCar struct {
	gorm.Model
	Name        string  `json:"name" gorm:"not null"`
	City        string  `json:"city" gorm:"not null;index"`
	Type        string  `json:"type"`
	PricePerDay float64 `json:"pricePerDay"`
	Seats       int     `json:"seats"`
	ImageURL    string  `json:"imageUrl"`
}

type RentalBookingStatus string

const (
	RentalBookingStatusConfirmed RentalBookingStatus = "confirmed"
	RentalBookingStatusCancelled RentalBookingStatus = "cancelled"
)

// RentalBooking cancels immediately on the owner's request with no admin
// step and no inventory to return. This intentionally differs from the
// transport cancellation flow.
type RentalBooking struct {
	gorm.Model
	UserID           uint                `json:"userId" gorm:"not null;index"`
	User             User                `json:"-"`
	CarID            uint                `json:"carId" gorm:"not null;index"`
	Car              RentalCar           `json:"car"`
	StartDate        time.Time           `json:"startDate" gorm:"not null"`
	EndDate          time.Time           `json:"endDate" gorm:"not null"`
	TotalPrice       float64             `json:"totalPrice"`
	ContactName      string              `json:"contactName"`
	ContactPhone     string              `json:"contactPhone"`
	DriverLicenseURL string              `json:"driverLicenseUrl"`
	Status           RentalBookingStatus `json:"status" gorm:"not null;default:confirmed"`
}
