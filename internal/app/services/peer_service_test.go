package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/websocket"
)

func TestCreatePostRejectsProfanity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{UserID: "u1", Content: "This is SHIT", Category: "stress"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrContentRejected)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, "Content contains inappropriate language and cannot be posted", custom.Message)
	assert.Equal(t, "Please revise your message and try again", custom.Suggestion)

	ids, err := env.repos.PeerRepository.PostIDs(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, env.todayRisk(t).Total())
	assert.Empty(t, env.activities(t, "u1"))
}

func TestCreatePostPersistsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post, intervention, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{
		UserID: "u1", Content: "Feeling overwhelmed by exams", Category: "stress", IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.Nil(t, intervention)

	assert.Equal(t, models.RiskModerate, post.RiskLevel)
	assert.False(t, post.Flagged)
	assert.False(t, post.IsModerated)
	assert.Equal(t, "u1", post.UserID)
	assert.NotNil(t, post.Replies)

	stored, err := env.repos.PeerRepository.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Content, stored.Content)

	byCategory, err := env.repos.PeerRepository.PostIDs(ctx, "stress")
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, byCategory)

	require.Len(t, env.feed.events, 1)
	event := env.feed.events[0]
	assert.Equal(t, []string{websocket.TopicAll, websocket.CategoryTopic("stress")}, event.topics)
	assert.Equal(t, models.AnonymousUserID, event.payload.(models.PeerPost).UserID)

	assert.Equal(t, 1, env.todayRisk(t).Moderate)
	entries := env.activities(t, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityPeerPostCreated, entries[0].Activity)
	assert.Equal(t, "stress", entries[0].Metadata["category"])
}

func TestCreatePostCrisisIsFlaggedAndHidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post, intervention, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{
		UserID: "u1", Content: "There is no hope left", Category: "general",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RiskCrisis, post.RiskLevel)
	assert.True(t, post.Flagged)
	assert.True(t, post.IsModerated)

	require.NotNil(t, intervention)
	assert.True(t, intervention.AutoBooking)
	assert.Equal(t, "Auto-booked due to crisis detection in peer forum", intervention.Appointment.Notes)

	assert.Empty(t, env.feed.events)
	assert.Equal(t, 1, env.todayRisk(t).Crisis)
	assert.Equal(t,
		[]string{models.ActivityCrisisIntervention, models.ActivityPeerPostCreated},
		activityNames(env.activities(t, "u1")))

	list, err := env.peer.ListPosts(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Empty(t, list.Posts)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestCreateReplyToMissingPostWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.peer.CreateReply(ctx, dto.CreateReplyRequest{UserID: "u1", PostID: "post_missing", Content: "hang in there"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Post not found", err.Error())

	entries, err := env.store.GetByPrefix(ctx, "peer_reply:")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, env.todayRisk(t).Total())
}

func TestCreateReplyRejectsProfanity(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.peer.CreateReply(context.Background(), dto.CreateReplyRequest{UserID: "u1", PostID: "p", Content: "damn it"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrContentRejected)
	assert.Equal(t, "Reply contains inappropriate language and cannot be posted", err.Error())
}

func TestRepliesAreEmbeddedAndFilteredInListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post, _, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{UserID: "u1", Content: "Any tips for sleep?", Category: "sleep"})
	require.NoError(t, err)

	visible, _, err := env.peer.CreateReply(ctx, dto.CreateReplyRequest{UserID: "u2", PostID: post.ID, Content: "Try no screens", IsAnonymous: true})
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, visible.RiskLevel)

	_, intervention, err := env.peer.CreateReply(ctx, dto.CreateReplyRequest{UserID: "u3", PostID: post.ID, Content: "I think about suicide"})
	require.NoError(t, err)
	require.NotNil(t, intervention)

	stored, err := env.repos.PeerRepository.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Replies, 2)

	reply, err := env.repos.PeerRepository.GetReply(ctx, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, reply.PostID)

	list, err := env.peer.ListPosts(ctx, 1, 20, "sleep")
	require.NoError(t, err)
	require.Len(t, list.Posts, 1)
	require.Len(t, list.Posts[0].Replies, 1)
	assert.Equal(t, models.AnonymousUserID, list.Posts[0].Replies[0].UserID)

	assert.Equal(t, models.ActivityPeerReplyCreated, env.activities(t, "u2")[0].Activity)
}

func TestListPostsPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, _, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{UserID: "u1", Content: fmt.Sprintf("post %d", i), Category: "general"})
		require.NoError(t, err)
	}

	page2, err := env.peer.ListPosts(ctx, 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 10)
	assert.Equal(t, dto.Pagination{Page: 2, Limit: 10, Total: 25, HasMore: true}, page2.Pagination)
	// global list is newest first
	assert.Equal(t, "post 14", page2.Posts[0].Content)

	page3, err := env.peer.ListPosts(ctx, 3, 10, "")
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 5)
	assert.False(t, page3.Pagination.HasMore)

	beyond, err := env.peer.ListPosts(ctx, 9, 10, "")
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)

	defaults, err := env.peer.ListPosts(ctx, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Pagination.Page)
	assert.Equal(t, 20, defaults.Pagination.Limit)
}

func TestLikePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post, _, err := env.peer.CreatePost(ctx, dto.CreatePostRequest{UserID: "u1", Content: "hello", Category: "general"})
	require.NoError(t, err)

	liked, err := env.peer.LikePost(ctx, post.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = env.peer.LikePost(ctx, post.ID, "u3")
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	_, err = env.peer.LikePost(ctx, "post_missing", "u2")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	stats, err := env.repos.UserRepository.GetStats(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PeerInteractions)
}
