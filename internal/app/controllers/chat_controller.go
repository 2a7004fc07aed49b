package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/middleware"
)

// ChatController handles the support chat endpoints
type ChatController struct {
	chatService *services.ChatService
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		logger:      logger,
	}
}

// AIChat answers a chat message
// @Summary Send a chat message
// @Description Classifies the message, generates a supportive reply and logs the exchange. A crisis message also triggers an emergency intervention.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse "Assistant reply"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ai-chat [post]
func (c *ChatController) AIChat(ctx *gin.Context) {
	var req dto.ChatRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.logger.Debug().Str("userID", req.UserID).Msg("AIChat endpoint called")

	resp, err := c.chatService.HandleMessage(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ChatHistory lists one day of a user's chat log
// @Summary Get chat history
// @Description Returns the chat exchanges of the user for the given UTC day (today when omitted)
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param date query string false "Day formatted as YYYY-MM-DD"
// @Success 200 {array} models.ChatLogEntry "Chat log"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /chat-history/{userId} [get]
func (c *ChatController) ChatHistory(ctx *gin.Context) {
	entries, err := c.chatService.ChatHistory(ctx.Request.Context(), ctx.Param("userId"), ctx.Query("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
