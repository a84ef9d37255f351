package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is a single scheduled trip between two cities with fixed capacity.
// AvailableSeats is mutated only by the booking lifecycle service and must
// never drop below zero or exceed Capacity.
type Schedule struct {
	gorm.Model
	Source         string    `json:"source" gorm:"not null"`
	Destination    string    `json:"destination" gorm:"not null"`
	DepartureTime  time.Time `json:"departureTime" gorm:"not null"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price" gorm:"not null"`
	AvailableSeats int       `json:"availableSeats" gorm:"not null"`
	Capacity       int       `json:"capacity" gorm:"not null"`
}
