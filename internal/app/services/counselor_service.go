package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/helpers"
)

// DefaultSearchDays is the crisis booking window when none is configured
const DefaultSearchDays = 7

// ReservedSlot is a slot claimed for a booking together with its counselor
type ReservedSlot struct {
	Slot      models.Slot
	Counselor models.Counselor
}

// SlotFinder reserves the next free counselor slot
type SlotFinder interface {
	// ReserveNextSlot returns nil when every slot of the search window is taken
	ReserveNextSlot(ctx context.Context, from time.Time, bookingID string) (*ReservedSlot, error)
}

// CounselorService exposes the roster and finds free slots
type CounselorService struct {
	counselorRepo *repositories.CounselorRepository
	bookingRepo   *repositories.BookingRepository
	searchDays    int
	logger        zerolog.Logger
}

// NewCounselorService creates a new CounselorService
func NewCounselorService(
	counselorRepo *repositories.CounselorRepository,
	bookingRepo *repositories.BookingRepository,
	searchDays int,
	logger zerolog.Logger,
) *CounselorService {
	if searchDays < 1 {
		searchDays = DefaultSearchDays
	}
	return &CounselorService{
		counselorRepo: counselorRepo,
		bookingRepo:   bookingRepo,
		searchDays:    searchDays,
		logger:        logger,
	}
}

// ListCounselors returns the roster
func (s *CounselorService) ListCounselors(ctx context.Context) ([]models.Counselor, error) {
	return s.counselorRepo.List(ctx)
}

// GetCounselor returns one counselor
func (s *CounselorService) GetCounselor(ctx context.Context, counselorID string) (*models.Counselor, error) {
	counselor, err := s.counselorRepo.GetByID(ctx, counselorID)
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.NewNotFoundError(msgCounselorNotFound)
	}
	return counselor, err
}

// ReserveNextSlot walks the days after from, the counselors in id order and
// their availability in order, and claims the first free slot.
func (s *CounselorService) ReserveNextSlot(ctx context.Context, from time.Time, bookingID string) (*ReservedSlot, error) {
	counselors, err := s.counselorRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for day := 1; day <= s.searchDays; day++ {
		date := helpers.DayKey(from.AddDate(0, 0, day))
		for _, counselor := range counselors {
			for _, at := range counselor.Availability {
				slot := models.Slot{CounselorID: counselor.ID, Date: date, Time: at}
				ok, err := s.bookingRepo.ReserveSlot(ctx, slot, bookingID)
				if err != nil {
					return nil, fmt.Errorf("failed to reserve slot: %w", err)
				}
				if ok {
					s.logger.Debug().Str("counselorID", counselor.ID).Str("date", date).Str("time", at).Msg("Reserved counselor slot")
					return &ReservedSlot{Slot: slot, Counselor: counselor}, nil
				}
			}
		}
	}

	s.logger.Warn().Int("searchDays", s.searchDays).Msg("No free counselor slot in search window")
	return nil, nil
}
