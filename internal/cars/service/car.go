package service

import (
	"context"
	"errors"
	"time"

	carserrors "carbook/internal/cars/errors"
	"carbook/internal/cars/repository"
	"carbook/pkg/config"
	apperrors "carbook/pkg/errors"
	"carbook/pkg/model"
)

type CarService interface {
	List(ctx context.Context) ([]*model.CarWithBookings, error)
	Get(ctx context.Context, id int64) (*model.Car, error)
}

type carService struct {
	repo repository.CarRepository
	cfg  *config.Config
}

func NewCarService(repo repository.CarRepository, cfg *config.Config) CarService {
	return &carService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *carService) List(ctx context.Context) ([]*model.CarWithBookings, error) {
	joined, err := s.repo.FindAllWithBookings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list cars", "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}

	cars := make([]*model.CarWithBookings, 0, len(joined))
	for _, row := range joined {
		entry := &model.CarWithBookings{
			Car:      row.Car,
			Bookings: make([]model.BookingSlot, 0, len(row.Bookings)),
		}
		for _, b := range row.Bookings {
			entry.Bookings = append(entry.Bookings, model.BookingSlot{
				Start:    b.StartDatetime.Format(time.RFC3339),
				End:      b.EndDatetime.Format(time.RFC3339),
				BookedBy: b.BookedBy,
			})
		}
		cars = append(cars, entry)
	}

	return cars, nil
}

func (s *carService) Get(ctx context.Context, id int64) (*model.Car, error) {
	if id < 1 {
		return nil, apperrors.InvalidInput("Car ID must be positive")
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Car")
		}
		s.cfg.Log.Error("Failed to get car", "car_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}

	return car, nil
}
