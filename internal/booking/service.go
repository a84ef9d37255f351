package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"go.uber.org/zap"
)

// Store is the persistence boundary of the transport reservation lifecycle.
// WithTx runs fn inside a single transaction; the Store passed to fn is
// scoped to that transaction so the seat check, the seat decrement and the
// booking insert commit or roll back together.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error
	GetScheduleForUpdate(ctx context.Context, id uint) (*models.Schedule, error)
	AdjustSeats(ctx context.Context, scheduleID uint, delta int) error
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus, reason string) error
	ListBookingsByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	LogActivity(ctx context.Context, entry *models.ActivityLog) error
}

// Notifier fans lifecycle events out to admin dashboards and the event bus.
// Implementations must not block the request.
type Notifier interface {
	BookingUpdated(action string, b *models.Booking)
	HotelBookingUpdated(action string, hb *models.HotelBooking)
}

// Service owns every mutation of schedule seat inventory. All reservation
// paths go through it; handlers never touch available_seats directly.
type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
}

func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, log: log}
}

type ReserveInput struct {
	UserID       uint
	ScheduleID   uint
	Passengers   int
	ContactName  string
	ContactPhone string
}

// Reserve creates a confirmed booking and decrements the schedule's seat
// count in one transaction. The schedule row is locked for the duration, so
// concurrent attempts against the same schedule serialize; attempts against
// different schedules do not contend.
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (*models.Booking, error) {
	if in.Passengers < 1 {
		return nil, ErrInvalidPassengerCount
	}

	booking := &models.Booking{
		Reference:    uuid.NewString(),
		UserID:       in.UserID,
		ScheduleID:   in.ScheduleID,
		BookingDate:  time.Now(),
		Passengers:   in.Passengers,
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactPhone: NormalizeContact(in.ContactPhone),
		Status:       models.BookingStatusConfirmed,
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		sched, err := tx.GetScheduleForUpdate(ctx, in.ScheduleID)
		if err != nil {
			return err
		}
		if sched.AvailableSeats < in.Passengers {
			return ErrInsufficientSeats
		}
		if err := tx.AdjustSeats(ctx, in.ScheduleID, -in.Passengers); err != nil {
			return err
		}
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking reserved",
		zap.Uint("bookingId", booking.ID),
		zap.Uint("scheduleId", in.ScheduleID),
		zap.Int("passengers", in.Passengers))
	s.notify("reserved", booking)
	return booking, nil
}

// RequestCancellation moves a confirmed booking owned by requesterID to
// cancellation_pending. Seats stay held until an admin decides.
func (s *Service) RequestCancellation(ctx context.Context, bookingID, requesterID uint, reason string) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != requesterID {
		return nil, ErrForbidden
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancellationPending, reason); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatusCancellationPending
	b.CancellationReason = reason

	s.log.Info("cancellation requested", zap.Uint("bookingId", bookingID))
	s.notify("cancellation_requested", b)
	return b, nil
}

// Approve finalizes a reviewed booking back to confirmed. Seats are already
// held since Reserve, so no inventory change happens here.
func (s *Service) Approve(ctx context.Context, bookingID, adminID uint) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed, b.CancellationReason); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatusConfirmed

	_ = s.store.LogActivity(ctx, &models.ActivityLog{
		AdminID:   adminID,
		Action:    "APPROVE_BOOKING",
		Details:   fmt.Sprintf("Approved Booking ID: %d", bookingID),
		Timestamp: time.Now(),
	})

	s.log.Info("booking approved", zap.Uint("bookingId", bookingID), zap.Uint("adminId", adminID))
	s.notify("approved", b)
	return b, nil
}

// Reject marks the booking rejected and returns its passengers to the
// schedule's seat pool. Both writes happen in one transaction: a rejected
// booking without returned seats (or the reverse) can never be observed.
func (s *Service) Reject(ctx context.Context, bookingID, adminID uint, reason string) (*models.Booking, error) {
	var rejected *models.Booking
	err := s.store.WithTx(ctx, func(tx Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return ErrInvalidState
		}
		if err := tx.UpdateBookingStatus(ctx, bookingID, models.BookingStatusRejected, reason); err != nil {
			return err
		}
		if err := tx.AdjustSeats(ctx, b.ScheduleID, b.Passengers); err != nil {
			return err
		}
		if err := tx.LogActivity(ctx, &models.ActivityLog{
			AdminID:   adminID,
			Action:    "REJECT_BOOKING",
			Details:   fmt.Sprintf("Rejected Booking ID: %d. Reason: %s", bookingID, reason),
			Timestamp: time.Now(),
		}); err != nil {
			return err
		}
		b.Status = models.BookingStatusRejected
		b.CancellationReason = reason
		rejected = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking rejected, seats returned",
		zap.Uint("bookingId", bookingID),
		zap.Int("passengers", rejected.Passengers))
	s.notify("rejected", rejected)
	return rejected, nil
}

// CheckIn matches a booking by ID and normalized contact phone and hands out
// the deterministic seat assignment. Both "no such booking" and "contact
// mismatch" surface as the same error so the public endpoint does not leak
// which bookings exist.
func (s *Service) CheckIn(ctx context.Context, bookingID uint, contact string) (string, *models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if err == ErrBookingNotFound {
			return "", nil, ErrCheckInMismatch
		}
		return "", nil, err
	}
	if NormalizeContact(contact) == "" || NormalizeContact(contact) != b.ContactPhone {
		return "", nil, ErrCheckInMismatch
	}

	seat := SeatAssignment(b.ID)
	s.log.Info("check-in", zap.Uint("bookingId", b.ID), zap.String("seat", seat))
	return seat, b, nil
}

func (s *Service) ListMine(ctx context.Context, userID uint) ([]models.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

// ListPending returns the bookings awaiting an admin decision, i.e. those in
// cancellation_pending. Transport bookings are born confirmed, so that is
// the only reviewable status on this path.
func (s *Service) ListPending(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookingsByStatus(ctx, models.BookingStatusCancellationPending)
}

// GetOwned fetches a booking and enforces ownership unless admin is set.
func (s *Service) GetOwned(ctx context.Context, bookingID, requesterID uint, admin bool) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !admin && b.UserID != requesterID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) notify(action string, b *models.Booking) {
	if s.notifier != nil {
		s.notifier.BookingUpdated(action, b)
	}
}

// NormalizeContact canonicalizes a contact phone for storage and equality
// matching: lower-cased, with spaces and separator punctuation stripped.
func NormalizeContact(contact string) string {
	contact = strings.ToLower(strings.TrimSpace(contact))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, contact)
}

// SeatAssignment derives a stable seat label from the booking ID: rows of
// four seats (A-D), thirty rows per coach.
func SeatAssignment(bookingID uint) string {
	row := bookingID%30 + 1
	letter := rune('A' + bookingID%4)
	return fmt.Sprintf("%d%c", row, letter)
}
