package models

import "gorm.io/gorm"

type Hotel struct {
	gorm.Model
	Name          string  `json:"name" gorm:"not null"`
	City          string  `json:"city" gorm:"not null;index"`
	Address       string  `json:"address"`
	PricePerNight float64 `json:"pricePerNight"`
	Rating        float64 `json:"rating"`
	ImageURL      string  `json:"imageUrl"`
	Amenities     string  `json:"amenities"`
}
