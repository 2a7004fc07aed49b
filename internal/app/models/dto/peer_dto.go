package dto

import "github.com/yigit/mindcare/internal/app/models"

// CreatePostRequest is a new forum post
type CreatePostRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Category    string `json:"category" binding:"required" example:"academic-stress"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// CreateReplyRequest is a reply to a forum post
type CreateReplyRequest struct {
	UserID      string `json:"userId" binding:"required"`
	PostID      string `json:"postId" binding:"required"`
	Content     string `json:"content" binding:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// LikePostRequest identifies who liked a post
type LikePostRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// PostResponse wraps a created or liked post
type PostResponse struct {
	Success      bool                       `json:"success" example:"true"`
	Post         models.PeerPost            `json:"post"`
	Intervention *models.InterventionResult `json:"intervention,omitempty"`
}

// ReplyResponse wraps a created reply
type ReplyResponse struct {
	Success      bool                       `json:"success" example:"true"`
	Reply        models.Reply               `json:"reply"`
	Intervention *models.InterventionResult `json:"intervention,omitempty"`
}

// PostListResponse is one page of visible posts
type PostListResponse struct {
	Posts      []models.PeerPost `json:"posts"`
	Pagination Pagination        `json:"pagination"`
}

// Pagination describes the returned page
type Pagination struct {
	Page    int  `json:"page" example:"1"`
	Limit   int  `json:"limit" example:"20"`
	Total   int  `json:"total" example:"42"`
	HasMore bool `json:"hasMore" example:"true"`
}
