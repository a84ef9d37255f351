package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLog records every admin decision on a reservation or user account.
type ActivityLog struct {
	gorm.Model
	AdminID   uint      `json:"adminId" gorm:"not null;index"`
	Admin     User      `json:"-"`
	Action    string    `json:"action" gorm:"not null"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}
