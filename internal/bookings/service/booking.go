package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"carbook/internal/bookings/repository"
	"carbook/internal/bookings/validator"
	carserrors "carbook/internal/cars/errors"
	"carbook/internal/notify"
	"carbook/pkg/config"
	apperrors "carbook/pkg/errors"
	"carbook/pkg/events"
	"carbook/pkg/model"
	"carbook/pkg/sanitizer"
)

// CarCatalog is the slice of the fleet catalog the booking engine needs:
// existence checks before insert and details for the confirmation email.
type CarCatalog interface {
	FindByID(ctx context.Context, id int64) (*model.Car, error)
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error)
	List(ctx context.Context) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	cars      CarCatalog
	validator *validator.BookingValidator
	notifier  notify.Notifier
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	cars CarCatalog,
	bookingValidator *validator.BookingValidator,
	notifier notify.Notifier,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		cars:      cars,
		validator: bookingValidator,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs the reservation protocol: validate, lock the car, check
// for overlaps and insert inside one transaction, then enrich and
// notify best-effort. Nothing is persisted on any failure before the
// transaction commits; nothing is undone after it.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error) {
	req.BookedBy = sanitizer.NormalizeName(req.BookedBy)

	start, end, err := s.validator.ValidateAndParse(req)
	if err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if s.cfg.RequireAuthForBooking && identity.Anonymous() {
		return nil, apperrors.Unauthorized("Login required to create a booking")
	}

	lockID, err := s.acquireCarLock(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseCarLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking := &model.Booking{
		CarID:         req.CarID,
		StartDatetime: start,
		EndDatetime:   end,
		BookedBy:      req.BookedBy,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if _, err := s.cars.FindByID(sessCtx, booking.CarID); err != nil {
			if errors.Is(err, carserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Car", fmt.Sprintf("%d", booking.CarID))
			}
			return apperrors.Internal("Failed to verify car", err)
		}

		id, err := s.repo.NextID(sessCtx)
		if err != nil {
			return apperrors.Internal("Failed to allocate booking id", err)
		}
		booking.ID = id

		if err := s.repo.Insert(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "car_id", req.CarID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"car_id", booking.CarID,
		"start_datetime", booking.StartDatetime,
		"end_datetime", booking.EndDatetime,
	)

	emailSent := s.notifyBestEffort(ctx, booking, identity)
	s.publishBestEffort(ctx, booking)

	return &model.BookingResult{ID: booking.ID, EmailSent: emailSent}, nil
}

func (s *bookingService) List(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.CarID, booking.StartDatetime, booking.EndDatetime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Overlaps(booking.StartDatetime, booking.EndDatetime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Car is already booked for that time period (%s - %s)",
				b.StartDatetime.Format(time.RFC3339),
				b.EndDatetime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// notifyBestEffort looks up car details and sends the confirmation.
// The booking is already committed: every failure on this path is
// logged, flagged in the response, and otherwise swallowed.
func (s *bookingService) notifyBestEffort(ctx context.Context, booking *model.Booking, identity model.Identity) bool {
	if identity.Email == "" {
		return false
	}

	car, err := s.cars.FindByID(ctx, booking.CarID)
	if err != nil {
		s.cfg.Log.Warn("Skipping notification, car lookup failed after commit",
			"booking_id", booking.ID,
			"car_id", booking.CarID,
			"error", err,
		)
		return false
	}

	recipientName := identity.Name
	if recipientName == "" {
		recipientName = booking.BookedBy
	}

	delivered, detail := s.notifier.Send(ctx, notify.Payload{
		RecipientEmail: identity.Email,
		RecipientName:  recipientName,
		BookingID:      booking.ID,
		CarMake:        car.Make,
		CarModel:       car.Model,
		LicensePlate:   car.LicensePlate,
		Start:          booking.StartDatetime,
		End:            booking.EndDatetime,
	})
	if !delivered {
		s.cfg.Log.Warn("Confirmation email not delivered",
			"booking_id", booking.ID,
			"recipient", identity.Email,
			"detail", detail,
		)
	}
	return delivered
}

func (s *bookingService) publishBestEffort(ctx context.Context, booking *model.Booking) {
	event := events.BookingCreated{
		BookingID: booking.ID,
		CarID:     booking.CarID,
		Start:     booking.StartDatetime,
		End:       booking.EndDatetime,
		BookedBy:  booking.BookedBy,
		CreatedAt: booking.CreatedAt,
	}
	if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "booking_id", booking.ID, "error", err)
	}
}

// acquireCarLock serializes create attempts per car. The lock id is
// derived from the car alone, so two concurrent requests for the same
// car collide here even before the overlap check runs.
func (s *bookingService) acquireCarLock(ctx context.Context, carID int64) (string, error) {
	lockID := fmt.Sprintf("car-%d", carID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This car is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseCarLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
