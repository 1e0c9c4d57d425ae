package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"carbook/internal/bookings/repository"
	"carbook/internal/bookings/validator"
	carserrors "carbook/internal/cars/errors"
	"carbook/internal/notify"
	"carbook/pkg/config"
	mongotx "carbook/pkg/db/mongo"
	apperrors "carbook/pkg/errors"
	"carbook/pkg/events"
	"carbook/pkg/logger"
	"carbook/pkg/model"
)

// Mock booking repository with function fields so each test stubs only
// what it needs.
type mockBookingRepository struct {
	insertFunc          func(ctx context.Context, booking *model.Booking) error
	findAllFunc         func(ctx context.Context) ([]*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, carID int64, start, end time.Time) ([]*model.Booking, error)
	nextIDFunc          func(ctx context.Context) (int64, error)

	mu       sync.Mutex
	inserted []*model.Booking
	nextID   int64
}

func (m *mockBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, booking)
	return nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Booking{}, m.inserted...), nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, carID int64, start, end time.Time) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, carID, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Booking
	for _, b := range m.inserted {
		if b.CarID == carID && b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBookingRepository) NextID(ctx context.Context) (int64, error) {
	if m.nextIDFunc != nil {
		return m.nextIDFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	// The mock has no real session; side effects run directly.
	sessCtx := mongo.NewSessionContext(ctx, nil)
	return fn(sessCtx)
}

// Mock lock repository backed by a map, so concurrent acquisitions of
// the same car collide the way the unique index makes them collide.
type mockLockRepository struct {
	mu    sync.Mutex
	held  map[string]bool
	fails bool
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{held: map[string]bool{}}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails {
		return nil, fmt.Errorf("lock storage down")
	}
	if m.held[lock.ID] {
		return nil, duplicateKeyError()
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

type mockCarCatalog struct {
	findByIDFunc func(ctx context.Context, id int64) (*model.Car, error)
}

func (m *mockCarCatalog) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Car{ID: id, Make: "Toyota", Model: "Corolla", LicensePlate: "AB-123"}, nil
}

type mockNotifier struct {
	sendFunc func(ctx context.Context, p notify.Payload) (bool, string)
	sent     []notify.Payload
}

func (m *mockNotifier) Send(ctx context.Context, p notify.Payload) (bool, string) {
	m.sent = append(m.sent, p)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, p)
	}
	return true, "sent"
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.BookingCreated
	err    error
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, e events.BookingCreated) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log:            logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"}),
		BookingLockTTL: 30 * time.Second,
	}
}

type serviceFixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	cars      *mockCarCatalog
	notifier  *mockNotifier
	publisher *mockPublisher
	cfg       *config.Config
	service   BookingService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      &mockBookingRepository{},
		locks:     newMockLockRepository(),
		cars:      &mockCarCatalog{},
		notifier:  &mockNotifier{},
		publisher: &mockPublisher{},
		cfg:       testConfig(),
	}
	f.service = NewBookingService(
		f.repo,
		f.locks,
		f.cars,
		validator.NewBookingValidator(f.cfg.Log),
		f.notifier,
		f.publisher,
		f.cfg,
	)
	return f
}

var _ repository.BookingRepository = (*mockBookingRepository)(nil)
var _ repository.BookingLockRepository = (*mockLockRepository)(nil)

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		CarID:         1,
		StartDatetime: "2026-09-14 10:00:00",
		EndDatetime:   "2026-09-14 14:00:00",
		BookedBy:      "Dana",
	}
}

func loggedIn() model.Identity {
	return model.Identity{UserID: "u1", Name: "Dana", Email: "dana@example.com"}
}

func TestCreate_Success(t *testing.T) {
	f := newServiceFixture()

	result, err := f.service.Create(context.Background(), validRequest(), loggedIn())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.ID != 1 {
		t.Errorf("expected id 1, got %d", result.ID)
	}
	if !result.EmailSent {
		t.Error("expected email_sent=true")
	}

	if len(f.repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(f.repo.inserted))
	}
	b := f.repo.inserted[0]
	if b.CarID != 1 || b.BookedBy != "Dana" {
		t.Errorf("unexpected booking persisted: %+v", b)
	}
	if len(f.publisher.events) != 1 {
		t.Errorf("expected 1 published event, got %d", len(f.publisher.events))
	}
	if len(f.locks.held) != 0 {
		t.Errorf("expected lock released, still held: %v", f.locks.held)
	}
}

func TestCreate_OverlapConflict(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.service.Create(ctx, validRequest(), loggedIn()); err != nil {
		t.Fatalf("first Create() failed: %v", err)
	}

	// Window starts inside the existing one.
	req := validRequest()
	req.StartDatetime = "2026-09-14 12:00:00"
	req.EndDatetime = "2026-09-14 16:00:00"

	_, err := f.service.Create(ctx, req, loggedIn())
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if len(f.repo.inserted) != 1 {
		t.Errorf("expected conflicting booking not persisted, have %d", len(f.repo.inserted))
	}
	if len(f.publisher.events) != 1 {
		t.Errorf("expected no event for rejected booking, have %d", len(f.publisher.events))
	}
}

func TestCreate_TouchingWindowsDoNotConflict(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.service.Create(ctx, validRequest(), loggedIn()); err != nil {
		t.Fatalf("first Create() failed: %v", err)
	}

	// New window starts exactly at the previous end instant.
	req := validRequest()
	req.StartDatetime = "2026-09-14 14:00:00"
	req.EndDatetime = "2026-09-14 18:00:00"

	result, err := f.service.Create(ctx, req, loggedIn())
	if err != nil {
		t.Fatalf("back-to-back Create() failed: %v", err)
	}
	if result.ID != 2 {
		t.Errorf("expected id 2, got %d", result.ID)
	}
}

func TestCreate_SameWindowDifferentCars(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.service.Create(ctx, validRequest(), loggedIn()); err != nil {
		t.Fatalf("first Create() failed: %v", err)
	}

	req := validRequest()
	req.CarID = 2
	if _, err := f.service.Create(ctx, req, loggedIn()); err != nil {
		t.Fatalf("Create() for second car failed: %v", err)
	}
}

func TestCreate_UnknownCar(t *testing.T) {
	f := newServiceFixture()
	f.cars.findByIDFunc = func(ctx context.Context, id int64) (*model.Car, error) {
		return nil, carserrors.ErrNotFound
	}

	_, err := f.service.Create(context.Background(), validRequest(), loggedIn())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	if len(f.repo.inserted) != 0 {
		t.Errorf("expected nothing persisted, have %d", len(f.repo.inserted))
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.BookingRequest)
	}{
		{"missing car", func(r *model.BookingRequest) { r.CarID = 0 }},
		{"missing booked_by", func(r *model.BookingRequest) { r.BookedBy = "" }},
		{"bad start format", func(r *model.BookingRequest) { r.StartDatetime = "2026/09/14 10:00:00" }},
		{"bad end format", func(r *model.BookingRequest) { r.EndDatetime = "tomorrow" }},
		{"empty window", func(r *model.BookingRequest) { r.EndDatetime = r.StartDatetime }},
		{"inverted window", func(r *model.BookingRequest) {
			r.StartDatetime, r.EndDatetime = r.EndDatetime, r.StartDatetime
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture()
			req := validRequest()
			tc.mutate(req)

			_, err := f.service.Create(context.Background(), req, loggedIn())
			assertAppErrorCode(t, err, apperrors.CodeValidation)

			if len(f.repo.inserted) != 0 {
				t.Errorf("expected nothing persisted, have %d", len(f.repo.inserted))
			}
		})
	}
}

func TestCreate_EmailFailureDoesNotFailBooking(t *testing.T) {
	f := newServiceFixture()
	f.notifier.sendFunc = func(ctx context.Context, p notify.Payload) (bool, string) {
		return false, "smtp unreachable"
	}

	result, err := f.service.Create(context.Background(), validRequest(), loggedIn())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.EmailSent {
		t.Error("expected email_sent=false when delivery fails")
	}
	if len(f.repo.inserted) != 1 {
		t.Errorf("expected booking persisted despite email failure, have %d", len(f.repo.inserted))
	}
}

func TestCreate_AnonymousSkipsEmail(t *testing.T) {
	f := newServiceFixture()

	result, err := f.service.Create(context.Background(), validRequest(), model.Identity{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.EmailSent {
		t.Error("expected email_sent=false for anonymous booking")
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("expected no notification attempt, got %d", len(f.notifier.sent))
	}
}

func TestCreate_AuthRequiredPolicy(t *testing.T) {
	f := newServiceFixture()
	f.cfg.RequireAuthForBooking = true

	_, err := f.service.Create(context.Background(), validRequest(), model.Identity{})
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)

	// An authenticated caller still succeeds.
	if _, err := f.service.Create(context.Background(), validRequest(), loggedIn()); err != nil {
		t.Fatalf("authenticated Create() failed: %v", err)
	}
}

func TestCreate_CarLookupFailureAfterCommit(t *testing.T) {
	f := newServiceFixture()
	calls := 0
	f.cars.findByIDFunc = func(ctx context.Context, id int64) (*model.Car, error) {
		calls++
		if calls == 1 {
			// In-transaction existence check passes.
			return &model.Car{ID: id, Make: "Toyota", Model: "Corolla"}, nil
		}
		return nil, fmt.Errorf("connection reset")
	}

	result, err := f.service.Create(context.Background(), validRequest(), loggedIn())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.EmailSent {
		t.Error("expected email_sent=false when post-commit car lookup fails")
	}
	if len(f.repo.inserted) != 1 {
		t.Errorf("expected booking persisted, have %d", len(f.repo.inserted))
	}
}

func TestCreate_LockHeldByAnotherRequest(t *testing.T) {
	f := newServiceFixture()
	f.locks.held["car-1"] = true

	_, err := f.service.Create(context.Background(), validRequest(), loggedIn())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreate_ConcurrentSameCarOneWinner(t *testing.T) {
	f := newServiceFixture()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), validRequest(), loggedIn())
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
				t.Errorf("unexpected error: %v", err)
				continue
			}
			conflicted++
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 success, got %d", succeeded)
	}
	if conflicted != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicted)
	}
	if len(f.repo.inserted) != 1 {
		t.Errorf("expected exactly 1 persisted booking, got %d", len(f.repo.inserted))
	}
}

func TestList_PassesThrough(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.service.Create(ctx, validRequest(), loggedIn()); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	bookings, err := f.service.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].BookedBy != "Dana" {
		t.Errorf("unexpected booking: %+v", bookings[0])
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}
