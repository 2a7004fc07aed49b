package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// UserRepository stores profiles, usage statistics and the role/department indexes
type UserRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store kvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// SaveProfile writes the profile document
func (r *UserRepository) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := kvstore.SetJSON(ctx, r.store, key(userProfilePrefix, profile.ID), profile); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}

// GetProfile loads a profile
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return getOne[models.UserProfile](ctx, r.store, key(userProfilePrefix, userID))
}

// UpdateProfile atomically mutates an existing profile
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, fn func(*models.UserProfile) error) (*models.UserProfile, error) {
	return updateExisting(ctx, r.store, key(userProfilePrefix, userID), fn)
}

// ListProfiles returns every stored profile
func (r *UserRepository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	profiles, err := kvstore.GetAllJSON[models.UserProfile](ctx, r.store, userProfilePrefix)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return profiles, nil
}

// SaveStats writes the statistics document
func (r *UserRepository) SaveStats(ctx context.Context, userID string, stats *models.UserStats) error {
	if err := kvstore.SetJSON(ctx, r.store, key(userStatsPrefix, userID), stats); err != nil {
		return fmt.Errorf("error saving stats: %w", err)
	}
	return nil
}

// GetStats loads the statistics of a user
func (r *UserRepository) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	return getOne[models.UserStats](ctx, r.store, key(userStatsPrefix, userID))
}

// UpdateStats atomically mutates the statistics, starting from zero counters when absent
func (r *UserRepository) UpdateStats(ctx context.Context, userID string, fn func(*models.UserStats)) error {
	return kvstore.UpdateJSON(ctx, r.store, key(userStatsPrefix, userID), func(stats *models.UserStats, _ bool) error {
		fn(stats)
		return nil
	})
}

// AddToRoleIndex records userID under users_by_role:{role}
func (r *UserRepository) AddToRoleIndex(ctx context.Context, role models.RoleType, userID string) error {
	return addToIndex(ctx, r.store, key(usersByRolePrefix, string(role)), userID)
}

// AddToDepartmentIndex records userID under users_by_department:{department}
func (r *UserRepository) AddToDepartmentIndex(ctx context.Context, department, userID string) error {
	return addToIndex(ctx, r.store, key(usersByDeptPrefix, department), userID)
}

// UsersByRole returns the ids indexed under role
func (r *UserRepository) UsersByRole(ctx context.Context, role models.RoleType) ([]string, error) {
	return kvstore.GetList[string](ctx, r.store, key(usersByRolePrefix, string(role)))
}

// UsersByDepartment returns the ids indexed under department
func (r *UserRepository) UsersByDepartment(ctx context.Context, department string) ([]string, error) {
	return kvstore.GetList[string](ctx, r.store, key(usersByDeptPrefix, department))
}
