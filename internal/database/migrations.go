package database

import (
	"os"
	"time"

	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Schedule{},
		&models.Booking{},
		&models.Hotel{},
		&models.HotelBooking{},
		&models.RentalCar{},
		&models.RentalBooking{},
		&models.ActivityLog{},
	)
	if err != nil {
		return err
	}

	if err := applySchemaConstraints(db); err != nil {
		return err
	}

	if os.Getenv("SEED_ADMIN_USERNAME") != "" {
		if err := seedAdmin(db); err != nil {
			return err
		}
	}

	return nil
}

// applySchemaConstraints installs the SQL-level invariants after AutoMigrate.
// The capacity backfill must run before the seats CHECK is added: rows that
// predate the capacity column carry capacity = 0, and Postgres validates
// existing rows when a CHECK constraint is added.
func applySchemaConstraints(db *gorm.DB) error {
	if err := db.Exec(`UPDATE schedules SET capacity = available_seats WHERE capacity = 0 AND available_seats > 0`).Error; err != nil {
		return err
	}

	// available_seats stays within [0, capacity], enforced in SQL as well
	// as in the lifecycle service.
	db.Exec(`ALTER TABLE schedules DROP CONSTRAINT IF EXISTS schedules_seats_non_negative`)
	if err := db.Exec(`ALTER TABLE schedules ADD CONSTRAINT schedules_seats_non_negative CHECK (available_seats >= 0 AND available_seats <= capacity)`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
	if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'admin'))`).Error; err != nil {
		return err
	}

	return nil
}

// seedAdmin creates the bootstrap admin account if it does not exist yet.
func seedAdmin(db *gorm.DB) error {
	username := os.Getenv("SEED_ADMIN_USERNAME")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Username: username,
		Password: password,
		Role:     string(models.UserRoleAdmin),
		FullName: "Administrator",
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	admin.CreatedAt = time.Now()
	return db.Create(&admin).Error
}
