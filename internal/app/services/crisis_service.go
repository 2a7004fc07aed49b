package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/email"
	"github.com/yigit/mindcare/internal/pkg/metrics"
)

// Messages shown to the user after a crisis was detected
const (
	MsgEmergencyBooked = "Emergency appointment has been automatically scheduled. Please check your booking details."
	MsgNoSlot          = "Crisis detected. Please contact emergency services immediately or visit the nearest counseling center."
	MsgCrisisFallback  = "Crisis detected. Please seek immediate help from emergency services."
)

// Crisis workflow outcomes, used as metric labels
const (
	outcomeBooked = "booked"
	outcomeNoSlot = "no_slot"
	outcomeFailed = "failed"
)

// CrisisService books an emergency session when a crisis is detected
type CrisisService struct {
	slots       SlotFinder
	bookingRepo *repositories.BookingRepository
	notifier    email.CrisisNotifier
	activity    ActivityRecorder
	metrics     *metrics.Collector
	logger      zerolog.Logger
	now         Clock
}

// NewCrisisService creates a new CrisisService. notifier and collector may be nil.
func NewCrisisService(
	slots SlotFinder,
	bookingRepo *repositories.BookingRepository,
	notifier email.CrisisNotifier,
	activity ActivityRecorder,
	collector *metrics.Collector,
	logger zerolog.Logger,
) *CrisisService {
	return &CrisisService{
		slots:       slots,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		activity:    activity,
		metrics:     collector,
		logger:      logger,
		now:         utcNow,
	}
}

// Intervene tries to auto-book an emergency session for userID. It never
// returns an error: failures degrade to a message pointing to emergency
// services. The attempt is always recorded in the activity log.
func (s *CrisisService) Intervene(ctx context.Context, userID, source string) models.InterventionResult {
	result, outcome := s.book(ctx, userID, source)
	s.metrics.ObserveCrisis(outcome)

	metadata := map[string]interface{}{
		"riskLevel":   models.RiskCrisis,
		"source":      source,
		"autoBooking": result.AutoBooking,
	}
	if result.AppointmentID != "" {
		metadata["appointmentId"] = result.AppointmentID
	}
	recordBestEffort(ctx, s.activity, s.logger, userID, models.ActivityCrisisIntervention, metadata)

	s.logger.Warn().Str("userID", userID).Str("source", source).Str("outcome", outcome).Msg("Crisis intervention triggered")
	return result
}

func (s *CrisisService) book(ctx context.Context, userID, source string) (result models.InterventionResult, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("userID", userID).Msg("Crisis intervention panicked")
			result = models.InterventionResult{AutoBooking: false, Message: MsgCrisisFallback}
			outcome = outcomeFailed
		}
	}()

	bookingID := "emergency_" + uuid.New().String()
	now := s.now()

	reserved, err := s.slots.ReserveNextSlot(ctx, now, bookingID)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Crisis slot lookup failed")
		return models.InterventionResult{AutoBooking: false, Message: MsgCrisisFallback}, outcomeFailed
	}
	if reserved == nil {
		return models.InterventionResult{AutoBooking: false, Message: MsgNoSlot}, outcomeNoSlot
	}

	booking := &models.Booking{
		ID:          bookingID,
		UserID:      userID,
		CounselorID: reserved.Slot.CounselorID,
		Date:        reserved.Slot.Date,
		Time:        reserved.Slot.Time,
		SessionType: models.SessionTypeCrisisIntervention,
		Mode:        models.SessionModeVideoCall,
		Notes:       fmt.Sprintf("Auto-booked due to crisis detection in %s", source),
		Status:      models.BookingStatusEmergencyScheduled,
		Priority:    models.BookingPriorityUrgent,
		CreatedAt:   now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to store emergency booking")
		if relErr := s.bookingRepo.ReleaseSlot(ctx, reserved.Slot); relErr != nil {
			s.logger.Error().Err(relErr).Str("bookingID", bookingID).Msg("Failed to release slot")
		}
		return models.InterventionResult{AutoBooking: false, Message: MsgCrisisFallback}, outcomeFailed
	}

	s.notify(ctx, booking, reserved.Counselor, source)

	return models.InterventionResult{
		AutoBooking:   true,
		AppointmentID: booking.ID,
		Appointment:   booking,
		Message:       MsgEmergencyBooked,
	}, outcomeBooked
}

func (s *CrisisService) notify(ctx context.Context, booking *models.Booking, counselor models.Counselor, source string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.NotifyCrisisBooking(ctx, email.CrisisAlert{
		CounselorEmail: counselor.Email,
		CounselorName:  counselor.Name,
		UserID:         booking.UserID,
		AppointmentID:  booking.ID,
		Date:           booking.Date,
		Time:           booking.Time,
		Source:         source,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("bookingID", booking.ID).Msg("Counselor not notified of emergency booking")
	}
}
