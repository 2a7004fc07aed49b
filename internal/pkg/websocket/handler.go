package websocket

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades feed subscriptions
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// ServeFeed godoc
// @Summary Subscribe to the live peer feed
// @Description Upgrades the connection to a WebSocket that receives newly created, non-flagged posts. Without a category every post is delivered.
// @Tags peer
// @Security BearerAuth
// @Param category query string false "Forum category"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid bearer token"
// @Router /peer-feed/ws [get]
func (h *Handler) ServeFeed(c *gin.Context) {
	topic := TopicAll
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		topic = CategoryTopic(category)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		h.logger.Warn().Err(err).Str("topic", topic).Msg("Failed to upgrade feed connection")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		topic:  topic,
		logger: h.logger,
	}
	if !client.hub.Register(client) {
		h.logger.Warn().Str("topic", topic).Msg("Feed is shutting down, closing connection")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()
}
