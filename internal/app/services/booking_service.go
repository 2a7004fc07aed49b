package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

// BookingService books counselling sessions
type BookingService struct {
	bookingRepo *repositories.BookingRepository
	counselors  *CounselorService
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         Clock
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *repositories.BookingRepository,
	counselors *CounselorService,
	activity ActivityRecorder,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		counselors:  counselors,
		activity:    activity,
		logger:      logger,
		now:         utcNow,
	}
}

// BookSession reserves the requested counselor slot and stores the booking
func (s *BookingService) BookSession(ctx context.Context, req dto.BookSessionRequest) (*models.Booking, error) {
	if _, err := s.counselors.GetCounselor(ctx, req.CounselorID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:          "booking_" + uuid.New().String(),
		UserID:      req.UserID,
		CounselorID: req.CounselorID,
		Date:        req.Date,
		Time:        req.Time,
		SessionType: req.SessionType,
		Mode:        req.Mode,
		Notes:       req.Notes,
		Status:      models.BookingStatusScheduled,
		Priority:    models.BookingPriorityNormal,
		CreatedAt:   s.now(),
	}

	slot := models.Slot{CounselorID: req.CounselorID, Date: req.Date, Time: req.Time}
	ok, err := s.bookingRepo.ReserveSlot(ctx, slot, booking.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError(msgSlotTaken)
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if relErr := s.bookingRepo.ReleaseSlot(ctx, slot); relErr != nil {
			s.logger.Error().Err(relErr).Str("bookingID", booking.ID).Msg("Failed to release slot")
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivitySessionBooked, map[string]interface{}{
		"counselorId": req.CounselorID,
		"sessionType": req.SessionType,
		"mode":        req.Mode,
	})

	s.logger.Info().Str("userID", req.UserID).Str("bookingID", booking.ID).Msg("Session booked")
	return booking, nil
}

// ListBookings returns the bookings of a user, newest first
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}
