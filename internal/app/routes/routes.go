package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mindcare/internal/app/controllers"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/middleware"
	"github.com/yigit/mindcare/internal/pkg/websocket"
)

// Handlers groups everything SetupRouter mounts
type Handlers struct {
	Account   *controllers.AccountController
	Chat      *controllers.ChatController
	Peer      *controllers.PeerController
	Care      *controllers.CareController
	Analytics *controllers.AnalyticsController
	Feed      *websocket.Handler
	Auth      *middleware.AuthMiddleware
}

// SetupRouter configures all application routes under basePath
func SetupRouter(router *gin.Engine, basePath string, h Handlers) {
	v1 := router.Group(basePath)

	// --- Public routes ---
	v1.GET("/health", Health)

	// --- Credential routes (client key in presence mode) ---
	credentials := v1.Group("")
	credentials.Use(h.Auth.RequireClientKey())
	{
		credentials.POST("/signup", h.Account.Signup)
		credentials.POST("/login", h.Account.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(h.Auth.RequireAuth())
	{
		// Account
		authenticated.GET("/profile/:userId", h.Account.GetProfile)
		authenticated.PUT("/profile/:userId", h.Account.UpdateProfile)
		authenticated.POST("/activity", h.Account.RecordActivity)

		// Support chat
		authenticated.POST("/ai-chat", h.Chat.AIChat)
		authenticated.GET("/chat-history/:userId", h.Chat.ChatHistory)

		// Care
		authenticated.POST("/assessment", h.Care.SubmitAssessment)
		authenticated.GET("/assessments/:userId", h.Care.ListAssessments)
		authenticated.POST("/book-session", h.Care.BookSession)
		authenticated.GET("/bookings/:userId", h.Care.ListBookings)
		authenticated.GET("/counselors", h.Care.ListCounselors)
		authenticated.POST("/get-resources", h.Care.GetResources)

		// Analytics
		authenticated.GET("/analytics", h.Analytics.GetAnalytics)
		authenticated.GET("/analytics/risk-trend", h.Analytics.GetRiskTrend)

		// Peer forum
		authenticated.POST("/peer-post", h.Peer.CreatePost)
		authenticated.POST("/peer-post/:postId/like", h.Peer.LikePost)
		authenticated.POST("/peer-reply", h.Peer.CreateReply)
		authenticated.GET("/peer-posts", h.Peer.ListPosts)
		if h.Feed != nil {
			authenticated.GET("/peer-feed/ws", h.Feed.ServeFeed)
		}
	}
}

// Health reports that the process is serving
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is up"
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// SetupMetrics exposes the prometheus registry at path
func SetupMetrics(router *gin.Engine, path string, handler http.Handler) {
	router.GET(path, gin.WrapH(handler))
}
