package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/middleware"
	"github.com/yigit/mindcare/internal/pkg/helpers"
)

// PeerController handles the peer support forum
type PeerController struct {
	peerService *services.PeerService
	logger      zerolog.Logger
}

// NewPeerController creates a new PeerController
func NewPeerController(peerService *services.PeerService, logger zerolog.Logger) *PeerController {
	return &PeerController{
		peerService: peerService,
		logger:      logger,
	}
}

// CreatePost publishes a forum post
// @Summary Create a peer post
// @Description Screens the content, classifies its risk and stores the post. Crisis posts are hidden from listings and trigger an intervention.
// @Tags peer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post content"
// @Success 201 {object} dto.PostResponse "Post created"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or inappropriate language"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /peer-post [post]
func (c *PeerController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.logger.Debug().Str("userID", req.UserID).Str("category", req.Category).Msg("CreatePost endpoint called")

	post, intervention, err := c.peerService.CreatePost(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.PostResponse{Success: true, Post: *post, Intervention: intervention})
}

// CreateReply adds a reply to a forum post
// @Summary Reply to a peer post
// @Description Screens the content, classifies its risk and appends the reply to the post
// @Tags peer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReplyRequest true "Reply content"
// @Success 201 {object} dto.ReplyResponse "Reply created"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or inappropriate language"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /peer-reply [post]
func (c *PeerController) CreateReply(ctx *gin.Context) {
	var req dto.CreateReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.logger.Debug().Str("userID", req.UserID).Str("postID", req.PostID).Msg("CreateReply endpoint called")

	reply, intervention, err := c.peerService.CreateReply(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ReplyResponse{Success: true, Reply: *reply, Intervention: intervention})
}

// ListPosts returns a page of visible posts
// @Summary List peer posts
// @Description Returns visible posts, newest first across categories or in posting order within a category
// @Tags peer
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param category query string false "Category filter"
// @Success 200 {object} dto.PostListResponse "Posts"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /peer-posts [get]
func (c *PeerController) ListPosts(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	resp, err := c.peerService.ListPosts(ctx.Request.Context(), page, limit, ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// LikePost increments the like count of a post
// @Summary Like a peer post
// @Tags peer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body dto.LikePostRequest true "Liking user"
// @Success 200 {object} dto.PostResponse "Updated post"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /peer-post/{postId}/like [post]
func (c *PeerController) LikePost(ctx *gin.Context) {
	var req dto.LikePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.peerService.LikePost(ctx.Request.Context(), ctx.Param("postId"), req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PostResponse{Success: true, Post: *post})
}
