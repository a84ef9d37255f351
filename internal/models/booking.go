package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusConfirmed           BookingStatus = "confirmed"
	BookingStatusCancellationPending BookingStatus = "cancellation_pending"
	BookingStatusRejected            BookingStatus = "rejected"
	BookingStatusCancelled           BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

// Booking is a user's seat reservation against a Schedule. Rows are never
// deleted; after creation the status field is the only mutation path.
type Booking struct {
	gorm.Model
	Reference          string        `json:"reference" gorm:"uniqueIndex;not null"`
	UserID             uint          `json:"userId" gorm:"not null;index"`
	User               User          `json:"-"`
	ScheduleID         uint          `json:"scheduleId" gorm:"not null;index"`
	Schedule           Schedule      `json:"schedule"`
	BookingDate        time.Time     `json:"bookingDate" gorm:"not null"`
	Passengers         int           `json:"passengers" gorm:"not null;default:1"`
	ContactName        string        `json:"contactName"`
	ContactPhone       string        `json:"contactPhone" gorm:"index"` // stored normalized, used by check-in
	Status             BookingStatus `json:"status" gorm:"not null;default:confirmed"`
	CancellationReason string        `json:"cancellationReason"`
}
