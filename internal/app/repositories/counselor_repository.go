package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// CounselorRepository stores the counselling roster
type CounselorRepository struct {
	store kvstore.Store
}

// NewCounselorRepository creates a new CounselorRepository
func NewCounselorRepository(store kvstore.Store) *CounselorRepository {
	return &CounselorRepository{store: store}
}

// Save writes a counselor
func (r *CounselorRepository) Save(ctx context.Context, counselor *models.Counselor) error {
	if err := kvstore.SetJSON(ctx, r.store, key(counselorPrefix, counselor.ID), counselor); err != nil {
		return fmt.Errorf("error saving counselor: %w", err)
	}
	return nil
}

// GetByID loads a counselor
func (r *CounselorRepository) GetByID(ctx context.Context, counselorID string) (*models.Counselor, error) {
	return getOne[models.Counselor](ctx, r.store, key(counselorPrefix, counselorID))
}

// List returns the roster ordered by id
func (r *CounselorRepository) List(ctx context.Context) ([]models.Counselor, error) {
	counselors, err := kvstore.GetAllJSON[models.Counselor](ctx, r.store, counselorPrefix)
	if err != nil {
		return nil, fmt.Errorf("error listing counselors: %w", err)
	}
	return counselors, nil
}
