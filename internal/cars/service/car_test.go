package service

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	carserrors "carbook/internal/cars/errors"
	"carbook/internal/cars/repository"
	"carbook/pkg/config"
	apperrors "carbook/pkg/errors"
	"carbook/pkg/logger"
	"carbook/pkg/model"
)

type mockCarRepository struct {
	findAllFunc  func(ctx context.Context) ([]*repository.CarJoin, error)
	findByIDFunc func(ctx context.Context, id int64) (*model.Car, error)
}

func (m *mockCarRepository) FindAllWithBookings(ctx context.Context) ([]*repository.CarJoin, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*repository.CarJoin{}, nil
}

func (m *mockCarRepository) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, carserrors.ErrNotFound
}

func newCarService(repo repository.CarRepository) CarService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"}),
	}
	return NewCarService(repo, cfg)
}

func TestList_MapsBookingsToSlots(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	repo := &mockCarRepository{
		findAllFunc: func(ctx context.Context) ([]*repository.CarJoin, error) {
			return []*repository.CarJoin{
				{
					Car: model.Car{ID: 1, Make: "Toyota", Model: "Corolla"},
					Bookings: []model.Booking{
						{
							ID:            7,
							CarID:         1,
							StartDatetime: start,
							EndDatetime:   start.Add(4 * time.Hour),
							BookedBy:      "Dana",
						},
					},
				},
				{Car: model.Car{ID: 2, Make: "Tesla", Model: "Model 3"}},
			}, nil
		},
	}

	cars, err := newCarService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("expected 2 cars, got %d", len(cars))
	}

	first := cars[0]
	if len(first.Bookings) != 1 {
		t.Fatalf("expected 1 booking slot, got %d", len(first.Bookings))
	}
	slot := first.Bookings[0]
	if slot.Start != "2026-09-14T10:00:00Z" {
		t.Errorf("expected RFC3339 start, got %q", slot.Start)
	}
	if slot.End != "2026-09-14T14:00:00Z" {
		t.Errorf("expected RFC3339 end, got %q", slot.End)
	}
	if slot.BookedBy != "Dana" {
		t.Errorf("expected bookedBy Dana, got %q", slot.BookedBy)
	}

	// A car without reservations serializes to an empty list, not null.
	if cars[1].Bookings == nil {
		t.Error("expected non-nil bookings slice for idle car")
	}
}

func TestList_RepeatedReadsIdentical(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	repo := &mockCarRepository{
		findAllFunc: func(ctx context.Context) ([]*repository.CarJoin, error) {
			// Fresh structs per call, as the repository would return.
			return []*repository.CarJoin{
				{
					Car: model.Car{ID: 1, Make: "Toyota", Model: "Corolla"},
					Bookings: []model.Booking{
						{
							ID:            7,
							CarID:         1,
							StartDatetime: start,
							EndDatetime:   start.Add(4 * time.Hour),
							BookedBy:      "Dana",
						},
					},
				},
				{Car: model.Car{ID: 2, Make: "Tesla", Model: "Model 3"}},
			}, nil
		},
	}
	svc := newCarService(repo)

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("first List() failed: %v", err)
	}
	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("second List() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("listing changed without writes:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestList_EmptyFleet(t *testing.T) {
	cars, err := newCarService(&mockCarRepository{}).List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if cars == nil || len(cars) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", cars)
	}
}

func TestGet_Found(t *testing.T) {
	repo := &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Car, error) {
			return &model.Car{ID: id, Make: "Tesla", Model: "Model 3"}, nil
		},
	}

	car, err := newCarService(repo).Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if car.ID != 2 || car.Make != "Tesla" {
		t.Errorf("unexpected car: %+v", car)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := newCarService(&mockCarRepository{}).Get(context.Background(), 42)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGet_InvalidID(t *testing.T) {
	for _, id := range []int64{0, -5} {
		_, err := newCarService(&mockCarRepository{}).Get(context.Background(), id)
		if err == nil {
			t.Errorf("expected error for id %d", id)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected %s for id %d, got %s", apperrors.CodeInvalidInput, id, appErr.Code)
		}
	}
}
