package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

const (
	activeUserWindow = 30 * 24 * time.Hour
	// MaxTrendDays bounds GetRiskTrend
	MaxTrendDays = 90
)

var riskLabels = []struct {
	level models.RiskLevel
	label string
	color string
}{
	{models.RiskLow, "Low Risk", "#10B981"},
	{models.RiskModerate, "Moderate Risk", "#F59E0B"},
	{models.RiskHigh, "High Risk", "#EF4444"},
	{models.RiskCrisis, "Crisis", "#7C2D12"},
}

// AnalyticsService aggregates risk counters and dashboard figures
type AnalyticsService struct {
	analyticsRepo *repositories.AnalyticsRepository
	userRepo      *repositories.UserRepository
	activityRepo  *repositories.ActivityRepository
	logger        zerolog.Logger
	now           Clock
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	analyticsRepo *repositories.AnalyticsRepository,
	userRepo *repositories.UserRepository,
	activityRepo *repositories.ActivityRepository,
	logger zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		activityRepo:  activityRepo,
		logger:        logger,
		now:           utcNow,
	}
}

// RecordRisk increments today's counter for level. Counters are never decremented.
func (s *AnalyticsService) RecordRisk(ctx context.Context, userID string, level models.RiskLevel) error {
	if !level.Valid() {
		return fmt.Errorf("cannot record risk level %q", level)
	}
	if err := s.analyticsRepo.Increment(ctx, helpers.DayKey(s.now()), level); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Str("riskLevel", string(level)).Msg("Failed to update risk analytics")
		return fmt.Errorf("failed to update risk analytics: %w", err)
	}
	return nil
}

// GetRiskTrend returns the last days buckets, oldest first, zero-filled
func (s *AnalyticsService) GetRiskTrend(ctx context.Context, days int) (*dto.RiskTrendResponse, error) {
	if days < 1 || days > MaxTrendDays {
		return nil, apperrors.NewValidationError(fmt.Sprintf("days must be between 1 and %d", MaxTrendDays))
	}

	today := s.now()
	trend := make([]dto.RiskTrendPoint, days)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < days; i++ {
		day := helpers.DayKey(today.AddDate(0, 0, i-days+1))
		g.Go(func() error {
			bucket, err := s.analyticsRepo.GetDay(gctx, day)
			if err != nil {
				return err
			}
			trend[i] = dto.RiskTrendPoint{Date: day, RiskAnalytics: bucket}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load risk trend: %w", err)
	}

	return &dto.RiskTrendResponse{Days: days, Trend: trend}, nil
}

// GetDashboard computes the admin dashboard figures
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*dto.AnalyticsResponse, error) {
	now := s.now()
	today := helpers.DayKey(now)

	var (
		profiles []models.UserProfile
		logs     []models.ActivityLogEntry
		bucket   models.RiskAnalytics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.userRepo.ListProfiles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.activityRepo.ListByDay(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		bucket, err = s.analyticsRepo.GetDay(gctx, today)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load analytics")
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	resp := &dto.AnalyticsResponse{
		TotalUsers:  len(profiles),
		UsersByRole: map[string]int{},
		TodayRisk:   bucket,
	}

	cutoff := now.Add(-activeUserWindow)
	distribution := map[models.RiskLevel]int{}
	for _, p := range profiles {
		if p.LastLogin != nil && p.LastLogin.After(cutoff) {
			resp.ActiveUsers++
		}
		resp.UsersByRole[string(p.Role)]++
		distribution[p.MentalHealthProfile.RiskLevel]++
	}

	for _, entry := range logs {
		switch entry.Activity {
		case models.ActivitySessionStart:
			resp.TotalSessions++
		case models.ActivityCrisisIntervention:
			resp.CrisisInterventions++
		case models.ActivityAssessmentComplete:
			resp.CompletedAssessments++
		}
	}

	resp.RiskDistribution = make([]dto.RiskDistributionItem, 0, len(riskLabels))
	for _, l := range riskLabels {
		resp.RiskDistribution = append(resp.RiskDistribution, dto.RiskDistributionItem{
			Level: l.label,
			Count: distribution[l.level],
			Color: l.color,
		})
	}

	return resp, nil
}
