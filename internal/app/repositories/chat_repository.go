package repositories

import (
	"context"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// ChatRepository appends to the per-user, per-day chat logs
type ChatRepository struct {
	store kvstore.Store
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(store kvstore.Store) *ChatRepository {
	return &ChatRepository{store: store}
}

// Append adds entry to chat_log:{userId}:{day}
func (r *ChatRepository) Append(ctx context.Context, day string, entry models.ChatLogEntry) error {
	return kvstore.AppendJSON(ctx, r.store, key(chatLogPrefix, entry.UserID, day), entry)
}

// ListByDay returns the chat log of a user for day
func (r *ChatRepository) ListByDay(ctx context.Context, userID, day string) ([]models.ChatLogEntry, error) {
	return kvstore.GetList[models.ChatLogEntry](ctx, r.store, key(chatLogPrefix, userID, day))
}
