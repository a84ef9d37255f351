package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return gdb, mock
}

// Upgrades from deployments that predate the capacity column only work if
// the backfill runs before the seats CHECK is added, since adding the
// constraint validates existing rows. Expectations are matched in order.
func TestApplySchemaConstraintsBackfillsCapacityFirst(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE schedules SET capacity = available_seats`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`ALTER TABLE schedules DROP CONSTRAINT IF EXISTS schedules_seats_non_negative`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE schedules ADD CONSTRAINT schedules_seats_non_negative`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE users ADD CONSTRAINT users_role_check`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := applySchemaConstraints(gdb); err != nil {
		t.Fatalf("applySchemaConstraints() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplySchemaConstraintsStopsOnBackfillError(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE schedules SET capacity = available_seats`).
		WillReturnError(errors.New("relation schedules does not exist"))

	if err := applySchemaConstraints(gdb); err == nil {
		t.Fatal("expected backfill error to propagate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
