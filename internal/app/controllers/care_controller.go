package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/middleware"
)

// CareController handles assessments, counselling sessions and self-help resources
type CareController struct {
	assessmentService *services.AssessmentService
	bookingService    *services.BookingService
	counselorService  *services.CounselorService
	resourceService   *services.ResourceService
	logger            zerolog.Logger
}

// NewCareController creates a new CareController
func NewCareController(
	assessmentService *services.AssessmentService,
	bookingService *services.BookingService,
	counselorService *services.CounselorService,
	resourceService *services.ResourceService,
	logger zerolog.Logger,
) *CareController {
	return &CareController{
		assessmentService: assessmentService,
		bookingService:    bookingService,
		counselorService:  counselorService,
		resourceService:   resourceService,
		logger:            logger,
	}
}

// SubmitAssessment stores a completed self-assessment
// @Summary Submit an assessment
// @Description Stores the assessment and updates the risk level on the user's profile
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssessmentRequest true "Assessment result"
// @Success 201 {object} dto.AssessmentResponse "Assessment stored"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or invalid risk level"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /assessment [post]
func (c *CareController) SubmitAssessment(ctx *gin.Context) {
	var req dto.AssessmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.logger.Debug().Str("userID", req.UserID).Str("assessmentType", req.AssessmentType).Msg("SubmitAssessment endpoint called")

	assessment, err := c.assessmentService.SubmitAssessment(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AssessmentResponse{Success: true, AssessmentID: assessment.ID})
}

// ListAssessments returns a user's assessments
// @Summary List assessments
// @Tags care
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} models.Assessment "Assessments, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /assessments/{userId} [get]
func (c *CareController) ListAssessments(ctx *gin.Context) {
	assessments, err := c.assessmentService.ListAssessments(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assessments)
}

// BookSession books a counselling session
// @Summary Book a session
// @Description Reserves the counselor's slot and stores a scheduled booking
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookSessionRequest true "Session details"
// @Success 201 {object} dto.BookingResponse "Session booked"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Counselor not found"
// @Failure 409 {object} dto.ErrorResponse "Slot already booked"
// @Router /book-session [post]
func (c *CareController) BookSession(ctx *gin.Context) {
	var req dto.BookSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.logger.Debug().Str("userID", req.UserID).Str("counselorID", req.CounselorID).Msg("BookSession endpoint called")

	booking, err := c.bookingService.BookSession(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.BookingResponse{Success: true, Booking: *booking})
}

// ListBookings returns a user's bookings
// @Summary List bookings
// @Tags care
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} models.Booking "Bookings, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /bookings/{userId} [get]
func (c *CareController) ListBookings(ctx *gin.Context) {
	bookings, err := c.bookingService.ListBookings(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

// ListCounselors returns the counselor roster
// @Summary List counselors
// @Tags care
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Counselor "Counselors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /counselors [get]
func (c *CareController) ListCounselors(ctx *gin.Context) {
	counselors, err := c.counselorService.ListCounselors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, counselors)
}

// GetResources suggests self-help resources
// @Summary Get self-help resources
// @Description Returns videos, books and articles for the problem type. High and crisis risk levels add hotlines.
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResourceRequest true "Problem type and risk level"
// @Success 200 {object} dto.ResourceResponse "Resources"
// @Failure 400 {object} dto.ErrorResponse "Invalid risk level"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /get-resources [post]
func (c *CareController) GetResources(ctx *gin.Context) {
	var req dto.ResourceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ctx.JSON(http.StatusOK, dto.ResourceResponse{Resources: c.resourceService.Suggest(ctx.Request.Context(), req)})
}
