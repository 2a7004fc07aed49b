package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	ActivityRepository   *ActivityRepository
	ChatRepository       *ChatRepository
	AnalyticsRepository  *AnalyticsRepository
	PeerRepository       *PeerRepository
	BookingRepository    *BookingRepository
	CounselorRepository  *CounselorRepository
	AssessmentRepository *AssessmentRepository
}

// NewRepositories initializes all repositories on top of one store
func NewRepositories(store kvstore.Store) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(store),
		ActivityRepository:   NewActivityRepository(store),
		ChatRepository:       NewChatRepository(store),
		AnalyticsRepository:  NewAnalyticsRepository(store),
		PeerRepository:       NewPeerRepository(store),
		BookingRepository:    NewBookingRepository(store),
		CounselorRepository:  NewCounselorRepository(store),
		AssessmentRepository: NewAssessmentRepository(store),
	}
}

// getOne loads a JSON document and maps a missing key to ErrResourceNotFound
func getOne[T any](ctx context.Context, store kvstore.Store, k string) (*T, error) {
	v, err := kvstore.GetJSON[T](ctx, store, k)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", k, apperrors.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("error retrieving %s: %w", k, err)
	}
	return &v, nil
}

// updateExisting mutates a stored document; a missing key yields ErrResourceNotFound
// and nothing is written.
func updateExisting[T any](ctx context.Context, store kvstore.Store, k string, fn func(*T) error) (*T, error) {
	var out T
	err := kvstore.UpdateJSON(ctx, store, k, func(current *T, exists bool) error {
		if !exists {
			return fmt.Errorf("%s: %w", k, apperrors.ErrResourceNotFound)
		}
		if err := fn(current); err != nil {
			return err
		}
		out = *current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// addToIndex appends id to the list at k unless it is already there
func addToIndex(ctx context.Context, store kvstore.Store, k, id string) error {
	return kvstore.UpdateJSON(ctx, store, k, func(ids *[]string, _ bool) error {
		for _, existing := range *ids {
			if existing == id {
				return kvstore.ErrSkipWrite
			}
		}
		*ids = append(*ids, id)
		return nil
	})
}
