package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/app/risk"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/helpers"
	"github.com/yigit/mindcare/internal/pkg/metrics"
	"github.com/yigit/mindcare/internal/pkg/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	forumCrisisSource = "peer forum"
	feedPostCreated   = "post_created"
	maxFetchWorkers   = 8
)

// FeedPublisher pushes events to live feed subscribers
type FeedPublisher interface {
	Publish(topics []string, eventType string, payload interface{})
}

// PeerService handles forum posts and replies
type PeerService struct {
	peerRepo   *repositories.PeerRepository
	filter     *risk.ContentFilter
	classifier risk.Classifier
	risk       RiskRecorder
	crisis     Intervener
	activity   ActivityRecorder
	feed       FeedPublisher
	metrics    *metrics.Collector
	source     string
	logger     zerolog.Logger
	now        Clock
}

// PeerDeps groups the collaborators of PeerService. Feed and Metrics may be nil.
type PeerDeps struct {
	PeerRepo     *repositories.PeerRepository
	Filter       *risk.ContentFilter
	Classifier   risk.Classifier
	Risk         RiskRecorder
	Crisis       Intervener
	Activity     ActivityRecorder
	Feed         FeedPublisher
	Metrics      *metrics.Collector
	CrisisSource string
}

// NewPeerService creates a new PeerService
func NewPeerService(deps PeerDeps, logger zerolog.Logger) *PeerService {
	filter := deps.Filter
	if filter == nil {
		filter = risk.NewContentFilter()
	}
	source := deps.CrisisSource
	if source == "" {
		source = forumCrisisSource
	}
	return &PeerService{
		peerRepo:   deps.PeerRepo,
		filter:     filter,
		classifier: deps.Classifier,
		risk:       deps.Risk,
		crisis:     deps.Crisis,
		activity:   deps.Activity,
		feed:       deps.Feed,
		metrics:    deps.Metrics,
		source:     source,
		logger:     logger,
		now:        utcNow,
	}
}

// CreatePost filters, classifies and stores a new post. The intervention is
// only set when the post was classified as crisis.
func (s *PeerService) CreatePost(ctx context.Context, req dto.CreatePostRequest) (*models.PeerPost, *models.InterventionResult, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, nil, apperrors.NewValidationError(msgMissingFields)
	}

	if result := s.filter.Check(req.Content); result.Blocked {
		s.metrics.ObserveRejection("post")
		s.logger.Info().Str("userID", req.UserID).Str("reason", result.Reason).Msg("Post rejected by content filter")
		return nil, nil, apperrors.NewContentRejectedError(msgPostRejected, msgContentSuggestion)
	}

	assessment, err := s.assess(ctx, req.Content, "post")
	if err != nil {
		return nil, nil, err
	}

	post := &models.PeerPost{
		ID:          "post_" + uuid.NewString(),
		UserID:      req.UserID,
		Content:     req.Content,
		Category:    req.Category,
		IsAnonymous: req.IsAnonymous,
		Timestamp:   s.now(),
		Likes:       0,
		Replies:     []models.Reply{},
		IsModerated: assessment.NeedsModeration,
		RiskLevel:   assessment.RiskLevel,
		Flagged:     assessment.Flagged,
	}

	if err := s.peerRepo.CreatePost(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("userID", req.UserID).Msg("Failed to store post")
		return nil, nil, fmt.Errorf("failed to store post: %w", err)
	}

	intervention := s.afterClassified(ctx, req.UserID, assessment.RiskLevel)

	recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivityPeerPostCreated, map[string]interface{}{
		"category":  req.Category,
		"riskLevel": assessment.RiskLevel,
	})

	if !post.Flagged && s.feed != nil {
		s.feed.Publish(
			[]string{websocket.TopicAll, websocket.CategoryTopic(post.Category)},
			feedPostCreated,
			post.PublicView(),
		)
	}

	s.logger.Debug().Str("postID", post.ID).Str("riskLevel", string(post.RiskLevel)).Msg("Post created")
	return post, intervention, nil
}

// CreateReply filters, classifies and attaches a reply to an existing post
func (s *PeerService) CreateReply(ctx context.Context, req dto.CreateReplyRequest) (*models.Reply, *models.InterventionResult, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.PostID) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, nil, apperrors.NewValidationError(msgMissingFields)
	}

	if result := s.filter.Check(req.Content); result.Blocked {
		s.metrics.ObserveRejection("reply")
		s.logger.Info().Str("userID", req.UserID).Str("reason", result.Reason).Msg("Reply rejected by content filter")
		return nil, nil, apperrors.NewContentRejectedError(msgReplyRejected, msgContentSuggestion)
	}

	if _, err := s.peerRepo.GetPost(ctx, req.PostID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil, apperrors.NewNotFoundError(msgPostNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load post: %w", err)
	}

	assessment, err := s.assess(ctx, req.Content, "reply")
	if err != nil {
		return nil, nil, err
	}

	reply := &models.Reply{
		ID:          "reply_" + uuid.NewString(),
		UserID:      req.UserID,
		PostID:      req.PostID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Timestamp:   s.now(),
		Likes:       0,
		RiskLevel:   assessment.RiskLevel,
		Flagged:     assessment.Flagged,
	}

	if err := s.peerRepo.AddReply(ctx, reply); err != nil {
		// the post may have been removed between the check and the write
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil, apperrors.NewNotFoundError(msgPostNotFound)
		}
		s.logger.Error().Err(err).Str("postID", req.PostID).Msg("Failed to store reply")
		return nil, nil, fmt.Errorf("failed to store reply: %w", err)
	}

	intervention := s.afterClassified(ctx, req.UserID, assessment.RiskLevel)

	recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivityPeerReplyCreated, map[string]interface{}{
		"postId":    req.PostID,
		"riskLevel": assessment.RiskLevel,
	})

	return reply, intervention, nil
}

// ListPosts returns one page of visible posts, newest first for the global list
func (s *PeerService) ListPosts(ctx context.Context, page, limit int, category string) (*dto.PostListResponse, error) {
	page, limit = helpers.NormalizePage(page, limit)

	ids, err := s.peerRepo.PostIDs(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load post index: %w", err)
	}

	start, end := helpers.CalculateSliceIndices(page, limit, len(ids))
	pageIDs := ids[start:end]

	fetched := make([]*models.PeerPost, len(pageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFetchWorkers)
	for i, id := range pageIDs {
		g.Go(func() error {
			post, err := s.peerRepo.GetPost(gctx, id)
			if err != nil {
				if errors.Is(err, apperrors.ErrResourceNotFound) {
					return nil
				}
				return err
			}
			fetched[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	posts := make([]models.PeerPost, 0, len(fetched))
	for _, post := range fetched {
		if post == nil || post.Flagged {
			continue
		}
		posts = append(posts, post.PublicView())
	}

	return &dto.PostListResponse{
		Posts:      posts,
		Pagination: helpers.NewPagination(len(ids), page, limit),
	}, nil
}

// LikePost increments the like counter of a post
func (s *PeerService) LikePost(ctx context.Context, postID, userID string) (*models.PeerPost, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError(msgMissingFields)
	}

	post, err := s.peerRepo.UpdatePost(ctx, postID, func(p *models.PeerPost) error {
		p.Likes++
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewNotFoundError(msgPostNotFound)
		}
		return nil, fmt.Errorf("failed to like post: %w", err)
	}

	recordBestEffort(ctx, s.activity, s.logger, userID, models.ActivityPeerPostLiked, map[string]interface{}{
		"postId": postID,
	})

	view := post.PublicView()
	return &view, nil
}

func (s *PeerService) assess(ctx context.Context, content, channel string) (risk.ContentAssessment, error) {
	level, err := s.classifier.Classify(ctx, content)
	if err != nil {
		return risk.ContentAssessment{}, fmt.Errorf("failed to classify %s: %w", channel, err)
	}
	s.metrics.ObserveRisk(channel, string(level))
	return risk.AssessContent(level), nil
}

// afterClassified counts the interaction and runs the crisis workflow for crisis content
func (s *PeerService) afterClassified(ctx context.Context, userID string, level models.RiskLevel) *models.InterventionResult {
	if err := s.risk.RecordRisk(ctx, userID, level); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID).Msg("Risk analytics not updated")
	}
	if level != models.RiskCrisis {
		return nil
	}
	result := s.crisis.Intervene(ctx, userID, s.source)
	return &result
}
