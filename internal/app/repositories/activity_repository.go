package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// maxLogPageBytes keeps one day page well under the DynamoDB 400KB item limit
const maxLogPageBytes = 300 * 1024

var errLogPageFull = errors.New("activity log page full")

// ActivityRepository appends to the per-day activity logs. A day starts at
// activity_log:{day}; once that value grows past the page size new entries go
// to activity_log:{day}:0001, :0002 and so on.
type ActivityRepository struct {
	store     kvstore.Store
	pageBytes int

	// last page written per day, so appends skip pages known to be full
	pages sync.Map
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(store kvstore.Store) *ActivityRepository {
	return &ActivityRepository{store: store, pageBytes: maxLogPageBytes}
}

func activityPageKey(day string, page int) string {
	if page == 0 {
		return key(activityLogPrefix, day)
	}
	return fmt.Sprintf("%s%s:%04d", activityLogPrefix, day, page)
}

// Append adds entry to the current page of the day's log
func (r *ActivityRepository) Append(ctx context.Context, day string, entry models.ActivityLogEntry) error {
	page := 0
	if hint, ok := r.pages.Load(day); ok {
		page = hint.(int)
	}

	for {
		err := r.store.Update(ctx, activityPageKey(day, page), func(raw []byte, exists bool) ([]byte, error) {
			var list []models.ActivityLogEntry
			if exists {
				if err := json.Unmarshal(raw, &list); err != nil {
					return nil, fmt.Errorf("decode activity log %s: %w", day, err)
				}
			}
			out, err := json.Marshal(append(list, entry))
			if err != nil {
				return nil, err
			}
			// a fresh page always takes the entry
			if exists && len(out) > r.pageBytes {
				return nil, errLogPageFull
			}
			return out, nil
		})
		if errors.Is(err, errLogPageFull) {
			page++
			continue
		}
		if err == nil {
			r.pages.Store(day, page)
		}
		return err
	}
}

// ListByDay returns the activity log of day across all of its pages
func (r *ActivityRepository) ListByDay(ctx context.Context, day string) ([]models.ActivityLogEntry, error) {
	var out []models.ActivityLogEntry
	for page := 0; ; page++ {
		entries, err := kvstore.GetJSON[[]models.ActivityLogEntry](ctx, r.store, activityPageKey(day, page))
		if errors.Is(err, kvstore.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	if out == nil {
		out = []models.ActivityLogEntry{}
	}
	return out, nil
}
