package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/helpers"
)

// ActivityService maintains user statistics and the daily activity log
type ActivityService struct {
	userRepo     *repositories.UserRepository
	activityRepo *repositories.ActivityRepository
	logger       zerolog.Logger
	now          Clock
}

// NewActivityService creates a new ActivityService
func NewActivityService(userRepo *repositories.UserRepository, activityRepo *repositories.ActivityRepository, logger zerolog.Logger) *ActivityService {
	return &ActivityService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		logger:       logger,
		now:          utcNow,
	}
}

// RecordUserActivity bumps the counter matching activity and appends to today's activity log
func (s *ActivityService) RecordUserActivity(ctx context.Context, userID, activity string, metadata map[string]interface{}) error {
	now := s.now().UTC()

	err := s.userRepo.UpdateStats(ctx, userID, func(stats *models.UserStats) {
		applyActivity(stats, activity, now)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Str("activity", activity).Msg("Failed to update user stats")
		return fmt.Errorf("failed to update user stats: %w", err)
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	entry := models.ActivityLogEntry{
		UserID:    userID,
		Activity:  activity,
		Timestamp: now,
		Metadata:  metadata,
	}
	if err := s.activityRepo.Append(ctx, helpers.DayKey(now), entry); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Str("activity", activity).Msg("Failed to append activity log")
		return fmt.Errorf("failed to append activity log: %w", err)
	}

	s.logger.Debug().Str("userID", userID).Str("activity", activity).Msg("Recorded user activity")
	return nil
}

// applyActivity updates the counters and the daily streak for one event
func applyActivity(stats *models.UserStats, activity string, now time.Time) {
	switch activity {
	case models.ActivitySessionStart:
		stats.TotalSessions++
	case models.ActivityAssessmentComplete:
		stats.TotalAssessments++
	case models.ActivityResourceAccess:
		stats.ResourcesAccessed++
	case models.ActivityPeerInteraction, models.ActivityPeerPostCreated,
		models.ActivityPeerReplyCreated, models.ActivityPeerPostLiked:
		stats.PeerInteractions++
	}

	switch {
	case stats.LastActivity == nil:
		stats.StreakDays = 1
	case helpers.SameDay(*stats.LastActivity, now):
		if stats.StreakDays == 0 {
			stats.StreakDays = 1
		}
	case helpers.IsPreviousDay(*stats.LastActivity, now):
		stats.StreakDays++
	default:
		stats.StreakDays = 1
	}
	stats.LastActivity = &now
}

// recordBestEffort records an activity from inside another workflow; failures are logged only
func recordBestEffort(ctx context.Context, recorder ActivityRecorder, logger zerolog.Logger, userID, activity string, metadata map[string]interface{}) {
	if err := recorder.RecordUserActivity(ctx, userID, activity, metadata); err != nil {
		logger.Warn().Err(err).Str("userID", userID).Str("activity", activity).Msg("Activity not recorded")
	}
}
