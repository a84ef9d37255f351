package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kwesiamoo/travelhub-backend/internal/models"
)

// fakeStore is an in-memory Store with transactional semantics: WithTx
// serializes callers and rolls written state back when fn returns an error,
// mirroring the row-locked transaction the real store runs.
type fakeStore struct {
	mu        sync.Mutex
	schedules map[uint]*models.Schedule
	bookings  map[uint]*models.Booking
	logs      []models.ActivityLog
	nextID    uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules: make(map[uint]*models.Schedule),
		bookings:  make(map[uint]*models.Booking),
		nextID:    1,
	}
}

func (f *fakeStore) addSchedule(id uint, seats, capacity int) {
	f.schedules[id] = &models.Schedule{
		Source:         "Accra",
		Destination:    "Kumasi",
		Price:          80,
		AvailableSeats: seats,
		Capacity:       capacity,
	}
	f.schedules[id].ID = id
}

func (f *fakeStore) snapshot() (map[uint]*models.Schedule, map[uint]*models.Booking, uint) {
	schedules := make(map[uint]*models.Schedule, len(f.schedules))
	for id, s := range f.schedules {
		copied := *s
		schedules[id] = &copied
	}
	bookings := make(map[uint]*models.Booking, len(f.bookings))
	for id, b := range f.bookings {
		copied := *b
		bookings[id] = &copied
	}
	return schedules, bookings, f.nextID
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	schedules, bookings, nextID := f.snapshot()
	if err := fn(f); err != nil {
		f.schedules = schedules
		f.bookings = bookings
		f.nextID = nextID
		return err
	}
	return nil
}

func (f *fakeStore) GetScheduleForUpdate(ctx context.Context, id uint) (*models.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) AdjustSeats(ctx context.Context, scheduleID uint, delta int) error {
	s, ok := f.schedules[scheduleID]
	if !ok {
		return ErrScheduleNotFound
	}
	s.AvailableSeats += delta
	return nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	b.ID = f.nextID
	f.nextID++
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.CancellationReason = reason
	return nil
}

func (f *fakeStore) ListBookingsByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) LogActivity(ctx context.Context, entry *models.ActivityLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name       string
		seats      int
		passengers int
		wantErr    error
		wantSeats  int
	}{
		{name: "successful reservation", seats: 40, passengers: 3, wantErr: nil, wantSeats: 37},
		{name: "exact capacity", seats: 2, passengers: 2, wantErr: nil, wantSeats: 0},
		{name: "insufficient seats", seats: 1, passengers: 2, wantErr: ErrInsufficientSeats, wantSeats: 1},
		{name: "sold out", seats: 0, passengers: 1, wantErr: ErrInsufficientSeats, wantSeats: 0},
		{name: "zero passengers", seats: 40, passengers: 0, wantErr: ErrInvalidPassengerCount, wantSeats: 40},
		{name: "negative passengers", seats: 40, passengers: -2, wantErr: ErrInvalidPassengerCount, wantSeats: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addSchedule(1, tt.seats, 40)
			svc := NewService(store, nil, nil)

			b, err := svc.Reserve(context.Background(), ReserveInput{
				UserID:       7,
				ScheduleID:   1,
				Passengers:   tt.passengers,
				ContactName:  "Ama Mensah",
				ContactPhone: "024 123 4567",
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Reserve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := store.schedules[1].AvailableSeats; got != tt.wantSeats {
				t.Errorf("available seats = %d, want %d", got, tt.wantSeats)
			}
			if tt.wantErr == nil {
				if b.Status != models.BookingStatusConfirmed {
					t.Errorf("status = %s, want confirmed", b.Status)
				}
				if b.Reference == "" {
					t.Error("expected a booking reference")
				}
				if b.ContactPhone != "0241234567" {
					t.Errorf("contact not normalized: %q", b.ContactPhone)
				}
			}
		})
	}
}

// Draining a 40-seat schedule succeeds once; the next single-seat attempt
// fails with a capacity error and the count stays at zero.
func TestReserveDrainedSchedule(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 40, 40)
	svc := NewService(store, nil, nil)

	if _, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 1, Passengers: 40, ContactPhone: "0241234567",
	}); err != nil {
		t.Fatalf("full reservation failed: %v", err)
	}
	if got := store.schedules[1].AvailableSeats; got != 0 {
		t.Fatalf("available seats = %d, want 0", got)
	}

	if _, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 8, ScheduleID: 1, Passengers: 1, ContactPhone: "0209999999",
	}); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("error = %v, want ErrInsufficientSeats", err)
	}
	if got := store.schedules[1].AvailableSeats; got != 0 {
		t.Errorf("available seats = %d, want 0 after failed attempt", got)
	}
}

func TestReserveUnknownSchedule(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 99, Passengers: 1,
	})
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("Reserve() error = %v, want ErrScheduleNotFound", err)
	}
}

// Concurrent reservations against the same schedule must never push
// available seats below zero, and the booked total must equal the seats
// actually removed from the pool.
func TestReserveConcurrentNoOverbooking(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 10, 10)
	svc := NewService(store, nil, nil)

	const attempts = 30
	var wg sync.WaitGroup
	var succeeded int32
	var succMu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), ReserveInput{
				UserID:       userID,
				ScheduleID:   1,
				Passengers:   1,
				ContactPhone: "0200000000",
			})
			if err == nil {
				succMu.Lock()
				succeeded++
				succMu.Unlock()
			} else if !errors.Is(err, ErrInsufficientSeats) {
				t.Errorf("unexpected error: %v", err)
			}
		}(uint(i + 1))
	}
	wg.Wait()

	if succeeded != 10 {
		t.Errorf("succeeded = %d, want 10", succeeded)
	}
	if got := store.schedules[1].AvailableSeats; got != 0 {
		t.Errorf("available seats = %d, want 0", got)
	}
	if got := len(store.bookings); got != 10 {
		t.Errorf("bookings created = %d, want 10", got)
	}
}

func TestRequestCancellation(t *testing.T) {
	setup := func() (*Service, *fakeStore, uint) {
		store := newFakeStore()
		store.addSchedule(1, 40, 40)
		svc := NewService(store, nil, nil)
		b, err := svc.Reserve(context.Background(), ReserveInput{
			UserID: 7, ScheduleID: 1, Passengers: 2, ContactPhone: "0241234567",
		})
		if err != nil {
			t.Fatalf("seed reservation: %v", err)
		}
		return svc, store, b.ID
	}

	t.Run("owner moves confirmed to cancellation_pending", func(t *testing.T) {
		svc, store, id := setup()
		b, err := svc.RequestCancellation(context.Background(), id, 7, "change of plans")
		if err != nil {
			t.Fatalf("RequestCancellation() error = %v", err)
		}
		if b.Status != models.BookingStatusCancellationPending {
			t.Errorf("status = %s, want cancellation_pending", b.Status)
		}
		// Seats stay held until the admin decides.
		if got := store.schedules[1].AvailableSeats; got != 38 {
			t.Errorf("available seats = %d, want 38", got)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, _, id := setup()
		if _, err := svc.RequestCancellation(context.Background(), id, 8, ""); !errors.Is(err, ErrForbidden) {
			t.Fatalf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("double request is invalid", func(t *testing.T) {
		svc, _, id := setup()
		if _, err := svc.RequestCancellation(context.Background(), id, 7, "x"); err != nil {
			t.Fatalf("first request: %v", err)
		}
		if _, err := svc.RequestCancellation(context.Background(), id, 7, "x"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("rejected booking cannot be cancelled", func(t *testing.T) {
		svc, _, id := setup()
		if _, err := svc.RequestCancellation(context.Background(), id, 7, "x"); err != nil {
			t.Fatalf("first request: %v", err)
		}
		if _, err := svc.Reject(context.Background(), id, 1, "refund"); err != nil {
			t.Fatalf("reject: %v", err)
		}
		if _, err := svc.RequestCancellation(context.Background(), id, 7, "again"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _, _ := setup()
		if _, err := svc.RequestCancellation(context.Background(), 999, 7, ""); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("error = %v, want ErrBookingNotFound", err)
		}
	})
}

func TestRejectReturnsSeats(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 40, 40)
	svc := NewService(store, nil, nil)

	b, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 1, Passengers: 3, ContactPhone: "0241234567",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if _, err := svc.RequestCancellation(context.Background(), b.ID, 7, "missed connection"); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}

	rejected, err := svc.Reject(context.Background(), b.ID, 1, "approved refund")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rejected.Status != models.BookingStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if got := store.schedules[1].AvailableSeats; got != 40 {
		t.Errorf("available seats = %d, want 40 after seats returned", got)
	}
	if len(store.logs) == 0 || store.logs[len(store.logs)-1].Action != "REJECT_BOOKING" {
		t.Error("expected a REJECT_BOOKING activity log entry")
	}

	// Terminal: rejecting again must fail and must not return seats twice.
	if _, err := svc.Reject(context.Background(), b.ID, 1, "again"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second reject error = %v, want ErrInvalidState", err)
	}
	if got := store.schedules[1].AvailableSeats; got != 40 {
		t.Errorf("available seats = %d, want 40 after failed second reject", got)
	}
}

func TestApprove(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 40, 40)
	svc := NewService(store, nil, nil)

	b, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 1, Passengers: 2, ContactPhone: "0241234567",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if _, err := svc.RequestCancellation(context.Background(), b.ID, 7, "x"); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}

	approved, err := svc.Approve(context.Background(), b.ID, 1)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", approved.Status)
	}
	// Approval keeps the seats held; inventory is untouched.
	if got := store.schedules[1].AvailableSeats; got != 38 {
		t.Errorf("available seats = %d, want 38", got)
	}

	// A rejected booking is terminal and cannot be approved.
	if _, err := svc.RequestCancellation(context.Background(), b.ID, 7, "y"); err != nil {
		t.Fatalf("second cancellation request: %v", err)
	}
	if _, err := svc.Reject(context.Background(), b.ID, 1, "done"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Approve(context.Background(), b.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("approve after reject error = %v, want ErrInvalidState", err)
	}
}

func TestCheckIn(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 40, 40)
	svc := NewService(store, nil, nil)

	b, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 1, Passengers: 1, ContactPhone: "024-123-4567",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	tests := []struct {
		name    string
		id      uint
		contact string
		wantErr error
	}{
		{name: "exact match", id: b.ID, contact: "0241234567", wantErr: nil},
		{name: "formatted variant matches", id: b.ID, contact: "(024) 123-4567", wantErr: nil},
		{name: "partial contact is rejected", id: b.ID, contact: "1234567", wantErr: ErrCheckInMismatch},
		{name: "empty contact is rejected", id: b.ID, contact: "", wantErr: ErrCheckInMismatch},
		{name: "wrong contact", id: b.ID, contact: "0209999999", wantErr: ErrCheckInMismatch},
		{name: "unknown booking looks identical", id: 999, contact: "0241234567", wantErr: ErrCheckInMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat, got, err := svc.CheckIn(context.Background(), tt.id, tt.contact)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CheckIn() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if seat == "" {
					t.Error("expected a seat assignment")
				}
				if got.ID != b.ID {
					t.Errorf("booking ID = %d, want %d", got.ID, b.ID)
				}
			}
		})
	}
}

func TestGetOwned(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(1, 40, 40)
	svc := NewService(store, nil, nil)

	b, err := svc.Reserve(context.Background(), ReserveInput{
		UserID: 7, ScheduleID: 1, Passengers: 1, ContactPhone: "0241234567",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), b.ID, 7, false); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), b.ID, 8, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger lookup error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetOwned(context.Background(), b.ID, 8, true); err != nil {
		t.Errorf("admin lookup failed: %v", err)
	}
}

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"024 123 4567", "0241234567"},
		{"(024) 123-4567", "0241234567"},
		{"  024.123.4567  ", "0241234567"},
		{"User@Example.COM", "user@examplecom"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeContact(tt.in); got != tt.want {
			t.Errorf("NormalizeContact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeatAssignment(t *testing.T) {
	if got := SeatAssignment(1); got != "2B" {
		t.Errorf("SeatAssignment(1) = %q, want 2B", got)
	}
	if got := SeatAssignment(120); got != "1A" {
		t.Errorf("SeatAssignment(120) = %q, want 1A", got)
	}
	// Stable across calls.
	if SeatAssignment(42) != SeatAssignment(42) {
		t.Error("seat assignment must be deterministic")
	}
}
