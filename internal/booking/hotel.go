package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"go.uber.org/zap"
)

// HotelStore is the persistence boundary of the hotel reservation workflow.
type HotelStore interface {
	GetHotel(ctx context.Context, id uint) (*models.Hotel, error)
	CreateHotelBooking(ctx context.Context, hb *models.HotelBooking) error
	GetHotelBooking(ctx context.Context, id uint) (*models.HotelBooking, error)
	UpdateHotelBookingStatus(ctx context.Context, id uint, status models.HotelBookingStatus, reason string) error
	ListHotelBookingsByUser(ctx context.Context, userID uint) ([]models.HotelBooking, error)
	ListHotelBookingsByStatus(ctx context.Context, status models.HotelBookingStatus) ([]models.HotelBooking, error)
	LogActivity(ctx context.Context, entry *models.ActivityLog) error
}

// HotelService runs the hotel approval workflow. It is deliberately a
// separate flow from transport bookings: reservations start pending, there
// is no unit inventory, and rejection returns nothing.
type HotelService struct {
	store    HotelStore
	notifier Notifier
	log      *zap.Logger
}

func NewHotelService(store HotelStore, notifier Notifier, log *zap.Logger) *HotelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HotelService{store: store, notifier: notifier, log: log}
}

type ReserveHotelInput struct {
	UserID       uint
	HotelID      uint
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	ContactName  string
	ContactPhone string
	TotalPrice   float64
}

// Reserve creates a pending hotel booking awaiting admin review.
func (s *HotelService) Reserve(ctx context.Context, in ReserveHotelInput) (*models.HotelBooking, error) {
	if in.Guests < 1 {
		return nil, ErrInvalidGuestCount
	}
	if !in.CheckOut.After(in.CheckIn) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.store.GetHotel(ctx, in.HotelID); err != nil {
		return nil, err
	}

	hb := &models.HotelBooking{
		UserID:       in.UserID,
		HotelID:      in.HotelID,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		Guests:       in.Guests,
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactPhone: NormalizeContact(in.ContactPhone),
		TotalPrice:   in.TotalPrice,
		Status:       models.HotelBookingStatusPending,
	}
	if err := s.store.CreateHotelBooking(ctx, hb); err != nil {
		return nil, err
	}

	s.log.Info("hotel reservation requested",
		zap.Uint("hotelBookingId", hb.ID),
		zap.Uint("hotelId", in.HotelID))
	s.notifyHotel("requested", hb)
	return hb, nil
}

// Approve confirms a pending hotel reservation.
func (s *HotelService) Approve(ctx context.Context, bookingID, adminID uint) (*models.HotelBooking, error) {
	hb, err := s.store.GetHotelBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if hb.Status == models.HotelBookingStatusRejected {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateHotelBookingStatus(ctx, bookingID, models.HotelBookingStatusConfirmed, ""); err != nil {
		return nil, err
	}
	hb.Status = models.HotelBookingStatusConfirmed

	_ = s.store.LogActivity(ctx, &models.ActivityLog{
		AdminID:   adminID,
		Action:    "APPROVE_HOTEL",
		Details:   fmt.Sprintf("Approved Hotel Booking ID: %d", bookingID),
		Timestamp: time.Now(),
	})

	s.log.Info("hotel reservation approved", zap.Uint("hotelBookingId", bookingID))
	s.notifyHotel("approved", hb)
	return hb, nil
}

// Reject declines a pending hotel reservation. No inventory is involved.
func (s *HotelService) Reject(ctx context.Context, bookingID, adminID uint, reason string) (*models.HotelBooking, error) {
	hb, err := s.store.GetHotelBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if hb.Status == models.HotelBookingStatusRejected {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateHotelBookingStatus(ctx, bookingID, models.HotelBookingStatusRejected, reason); err != nil {
		return nil, err
	}
	hb.Status = models.HotelBookingStatusRejected
	hb.RejectionReason = reason

	_ = s.store.LogActivity(ctx, &models.ActivityLog{
		AdminID:   adminID,
		Action:    "REJECT_HOTEL",
		Details:   fmt.Sprintf("Rejected Hotel Booking ID: %d. Reason: %s", bookingID, reason),
		Timestamp: time.Now(),
	})

	s.log.Info("hotel reservation rejected", zap.Uint("hotelBookingId", bookingID))
	s.notifyHotel("rejected", hb)
	return hb, nil
}

func (s *HotelService) ListMine(ctx context.Context, userID uint) ([]models.HotelBooking, error) {
	return s.store.ListHotelBookingsByUser(ctx, userID)
}

func (s *HotelService) ListPending(ctx context.Context) ([]models.HotelBooking, error) {
	return s.store.ListHotelBookingsByStatus(ctx, models.HotelBookingStatusPending)
}

func (s *HotelService) notifyHotel(action string, hb *models.HotelBooking) {
	if s.notifier != nil {
		s.notifier.HotelBookingUpdated(action, hb)
	}
}
