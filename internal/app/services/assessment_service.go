package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

// AssessmentService stores self-assessments and keeps the profile summary current
type AssessmentService struct {
	assessmentRepo *repositories.AssessmentRepository
	userRepo       *repositories.UserRepository
	activity       ActivityRecorder
	logger         zerolog.Logger
	now            Clock
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(
	assessmentRepo *repositories.AssessmentRepository,
	userRepo *repositories.UserRepository,
	activity ActivityRecorder,
	logger zerolog.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		activity:       activity,
		logger:         logger,
		now:            utcNow,
	}
}

// SubmitAssessment stores the assessment and, when the user has a profile,
// appends it to the profile history and updates the current risk level.
func (s *AssessmentService) SubmitAssessment(ctx context.Context, req dto.AssessmentRequest) (*models.Assessment, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.AssessmentType) == "" {
		return nil, apperrors.NewValidationError(msgMissingFields)
	}
	if !req.RiskLevel.Valid() {
		return nil, apperrors.NewValidationError("riskLevel must be one of low, moderate, high, crisis")
	}

	responses := req.Responses
	if responses == nil {
		responses = map[string]interface{}{}
	}

	assessment := &models.Assessment{
		ID:             "assessment_" + uuid.NewString(),
		UserID:         req.UserID,
		AssessmentType: req.AssessmentType,
		Responses:      responses,
		Score:          req.Score,
		RiskLevel:      req.RiskLevel,
		Timestamp:      s.now(),
	}

	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		s.logger.Error().Err(err).Str("userID", req.UserID).Msg("Failed to store assessment")
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	_, err := s.userRepo.UpdateProfile(ctx, req.UserID, func(p *models.UserProfile) error {
		taken := assessment.Timestamp
		p.MentalHealthProfile.LastAssessment = &taken
		p.MentalHealthProfile.RiskLevel = assessment.RiskLevel
		p.MentalHealthProfile.AssessmentHistory = append(p.MentalHealthProfile.AssessmentHistory, models.AssessmentSummary{
			ID:        assessment.ID,
			Type:      assessment.AssessmentType,
			Score:     assessment.Score,
			RiskLevel: assessment.RiskLevel,
			Timestamp: assessment.Timestamp,
		})
		return nil
	})
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		s.logger.Debug().Str("userID", req.UserID).Msg("No profile to update with assessment")
	case err != nil:
		s.logger.Error().Err(err).Str("userID", req.UserID).Msg("Failed to update profile with assessment")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivityAssessmentComplete, map[string]interface{}{
		"assessmentType": req.AssessmentType,
		"score":          req.Score,
		"riskLevel":      req.RiskLevel,
	})

	return assessment, nil
}

// ListAssessments returns the user's assessments, newest first
func (s *AssessmentService) ListAssessments(ctx context.Context, userID string) ([]models.Assessment, error) {
	return s.assessmentRepo.ListByUser(ctx, userID)
}
