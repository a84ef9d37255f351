package booking

import (
	"context"
	"errors"

	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store and HotelStore against the shared gorm pool.
// The pool handle is injected at startup; nothing here reaches for globals.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// GetScheduleForUpdate locks the schedule row for the rest of the enclosing
// transaction. This is the serialization point for same-schedule reservations.
func (s *GormStore) GetScheduleForUpdate(ctx context.Context, id uint) (*models.Schedule, error) {
	var sched models.Schedule
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sched, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (s *GormStore) AdjustSeats(ctx context.Context, scheduleID uint, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", scheduleID).
		Update("available_seats", gorm.Expr("available_seats + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *GormStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *GormStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).Preload("Schedule").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus, reason string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              status,
			"cancellation_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *GormStore) ListBookingsByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Schedule").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Schedule").
		Preload("User").
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) LogActivity(ctx context.Context, entry *models.ActivityLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// Hotel workflow

func (s *GormStore) GetHotel(ctx context.Context, id uint) (*models.Hotel, error) {
	var h models.Hotel
	err := s.db.WithContext(ctx).First(&h, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *GormStore) CreateHotelBooking(ctx context.Context, hb *models.HotelBooking) error {
	return s.db.WithContext(ctx).Create(hb).Error
}

func (s *GormStore) GetHotelBooking(ctx context.Context, id uint) (*models.HotelBooking, error) {
	var hb models.HotelBooking
	err := s.db.WithContext(ctx).Preload("Hotel").First(&hb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &hb, nil
}

func (s *GormStore) UpdateHotelBookingStatus(ctx context.Context, id uint, status models.HotelBookingStatus, reason string) error {
	res := s.db.WithContext(ctx).
		Model(&models.HotelBooking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *GormStore) ListHotelBookingsByUser(ctx context.Context, userID uint) ([]models.HotelBooking, error) {
	var bookings []models.HotelBooking
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Hotel").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) ListHotelBookingsByStatus(ctx context.Context, status models.HotelBookingStatus) ([]models.HotelBooking, error) {
	var bookings []models.HotelBooking
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Hotel").
		Preload("User").
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}
