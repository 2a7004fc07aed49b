package repositories

import (
	"context"
	"errors"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// AnalyticsRepository keeps the per-day risk counters
type AnalyticsRepository struct {
	store kvstore.Store
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(store kvstore.Store) *AnalyticsRepository {
	return &AnalyticsRepository{store: store}
}

// Increment bumps the counter of level in risk_analytics:{day}, creating a zero bucket when absent
func (r *AnalyticsRepository) Increment(ctx context.Context, day string, level models.RiskLevel) error {
	return kvstore.UpdateJSON(ctx, r.store, key(riskAnalyticsPrefix, day), func(bucket *models.RiskAnalytics, _ bool) error {
		bucket.Increment(level)
		return nil
	})
}

// GetDay returns the bucket of day, all zeros when nothing was recorded
func (r *AnalyticsRepository) GetDay(ctx context.Context, day string) (models.RiskAnalytics, error) {
	bucket, err := kvstore.GetJSON[models.RiskAnalytics](ctx, r.store, key(riskAnalyticsPrefix, day))
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.RiskAnalytics{}, nil
	}
	return bucket, err
}
