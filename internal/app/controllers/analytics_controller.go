package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/middleware"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

const defaultTrendDays = 7

// AnalyticsController serves the aggregate dashboard data
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
	logger           zerolog.Logger
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService, logger zerolog.Logger) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetAnalytics returns the dashboard figures
// @Summary Get analytics
// @Description Returns user counts, today's activity totals, the profile risk distribution and today's risk counters
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsResponse "Analytics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	c.logger.Debug().Msg("GetAnalytics endpoint called")

	resp, err := c.analyticsService.GetDashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetRiskTrend returns daily risk counters
// @Summary Get risk trend
// @Description Returns one risk bucket per UTC day, oldest first. Days without data are zero.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days (1-90)" default(7)
// @Success 200 {object} dto.RiskTrendResponse "Risk trend"
// @Failure 400 {object} dto.ErrorResponse "Invalid days"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /analytics/risk-trend [get]
func (c *AnalyticsController) GetRiskTrend(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", strconv.Itoa(defaultTrendDays)))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("days must be a number"))
		return
	}

	resp, err := c.analyticsService.GetRiskTrend(ctx.Request.Context(), days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
