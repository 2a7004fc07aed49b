package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

// PeerRepository stores forum posts, replies and the post indexes
type PeerRepository struct {
	store kvstore.Store
}

// NewPeerRepository creates a new PeerRepository
func NewPeerRepository(store kvstore.Store) *PeerRepository {
	return &PeerRepository{store: store}
}

// CreatePost persists post and adds it to its category index and to the global list
func (r *PeerRepository) CreatePost(ctx context.Context, post *models.PeerPost) error {
	if err := kvstore.SetJSON(ctx, r.store, key(peerPostPrefix, post.ID), post); err != nil {
		return fmt.Errorf("error saving post: %w", err)
	}

	if err := kvstore.AppendJSON(ctx, r.store, key(postsByCategoryPrefix, post.Category), post.ID); err != nil {
		return fmt.Errorf("error indexing post by category: %w", err)
	}

	// newest first
	err := kvstore.UpdateJSON(ctx, r.store, allPeerPostsKey, func(ids *[]string, _ bool) error {
		next := append([]string{post.ID}, *ids...)
		if len(next) > MaxGlobalPosts {
			next = next[:MaxGlobalPosts]
		}
		*ids = next
		return nil
	})
	if err != nil {
		return fmt.Errorf("error indexing post: %w", err)
	}
	return nil
}

// GetPost loads a post
func (r *PeerRepository) GetPost(ctx context.Context, postID string) (*models.PeerPost, error) {
	return getOne[models.PeerPost](ctx, r.store, key(peerPostPrefix, postID))
}

// UpdatePost atomically mutates an existing post
func (r *PeerRepository) UpdatePost(ctx context.Context, postID string, fn func(*models.PeerPost) error) (*models.PeerPost, error) {
	return updateExisting(ctx, r.store, key(peerPostPrefix, postID), fn)
}

// AddReply appends reply to its post and stores it under peer_reply:{id}
func (r *PeerRepository) AddReply(ctx context.Context, reply *models.Reply) error {
	_, err := r.UpdatePost(ctx, reply.PostID, func(post *models.PeerPost) error {
		post.Replies = append(post.Replies, *reply)
		return nil
	})
	if err != nil {
		return err
	}

	if err := kvstore.SetJSON(ctx, r.store, key(peerReplyPrefix, reply.ID), reply); err != nil {
		return fmt.Errorf("error saving reply: %w", err)
	}
	return nil
}

// GetReply loads a reply
func (r *PeerRepository) GetReply(ctx context.Context, replyID string) (*models.Reply, error) {
	return getOne[models.Reply](ctx, r.store, key(peerReplyPrefix, replyID))
}

// PostIDs returns the ids of a category index, or the global list when category is empty
func (r *PeerRepository) PostIDs(ctx context.Context, category string) ([]string, error) {
	if category == "" {
		return kvstore.GetList[string](ctx, r.store, allPeerPostsKey)
	}
	return kvstore.GetList[string](ctx, r.store, key(postsByCategoryPrefix, category))
}
