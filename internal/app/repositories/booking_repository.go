package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// BookingRepository stores bookings, the per-user booking index and slot reservations
type BookingRepository struct {
	store kvstore.Store
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(store kvstore.Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create persists booking and indexes it under user_bookings:{userId}
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := kvstore.SetJSON(ctx, r.store, key(bookingPrefix, booking.ID), booking); err != nil {
		return fmt.Errorf("error saving booking: %w", err)
	}
	if err := addToIndex(ctx, r.store, key(userBookingsPrefix, booking.UserID), booking.ID); err != nil {
		return fmt.Errorf("error indexing booking: %w", err)
	}
	return nil
}

// GetByID loads a booking
func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return getOne[models.Booking](ctx, r.store, key(bookingPrefix, bookingID))
}

// ListByUser returns the bookings of a user, newest first
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	ids, err := kvstore.GetList[string](ctx, r.store, key(userBookingsPrefix, userID))
	if err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(ids))
	for _, id := range ids {
		b, err := r.GetByID(ctx, id)
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// ReserveSlot claims counselor_slot:{counselorId}:{date}:{time} for bookingID.
// It returns false when the slot was already taken.
func (r *BookingRepository) ReserveSlot(ctx context.Context, slot models.Slot, bookingID string) (bool, error) {
	reserved := false
	err := r.store.Update(ctx, key(counselorSlotPrefix, slot.CounselorID, slot.Date, slot.Time), func(_ []byte, exists bool) ([]byte, error) {
		if exists {
			reserved = false
			return nil, kvstore.ErrSkipWrite
		}
		reserved = true
		return []byte(fmt.Sprintf("%q", bookingID)), nil
	})
	if err != nil {
		return false, fmt.Errorf("error reserving slot: %w", err)
	}
	return reserved, nil
}

// ReleaseSlot frees a reserved slot
func (r *BookingRepository) ReleaseSlot(ctx context.Context, slot models.Slot) error {
	return r.store.Delete(ctx, key(counselorSlotPrefix, slot.CounselorID, slot.Date, slot.Time))
}
