package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// AssessmentRepository stores completed self-assessments
type AssessmentRepository struct {
	store kvstore.Store
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(store kvstore.Store) *AssessmentRepository {
	return &AssessmentRepository{store: store}
}

// Create writes assessment:{userId}:{id}
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := kvstore.SetJSON(ctx, r.store, key(assessmentPrefix, assessment.UserID, assessment.ID), assessment); err != nil {
		return fmt.Errorf("error saving assessment: %w", err)
	}
	return nil
}

// ListByUser returns the assessments of a user, newest first
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Assessment, error) {
	list, err := kvstore.GetAllJSON[models.Assessment](ctx, r.store, key(assessmentPrefix, userID)+":")
	if err != nil {
		return nil, fmt.Errorf("error listing assessments: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}
