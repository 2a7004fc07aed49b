// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/middleware"
)

// AccountController handles signup, login, profiles and activity tracking
type AccountController struct {
	accountService  *services.AccountService
	activityService *services.ActivityService
	logger          zerolog.Logger
}

// NewAccountController creates a new AccountController
func NewAccountController(accountService *services.AccountService, activityService *services.ActivityService, logger zerolog.Logger) *AccountController {
	return &AccountController{
		accountService:  accountService,
		activityService: activityService,
		logger:          logger,
	}
}

// Signup handles account creation
// @Summary Create an account
// @Description Creates the identity, the user profile and the stats record. Role must be student, counselor or admin.
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account information"
// @Success 201 {object} dto.SignupResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or invalid role"
// @Failure 401 {object} dto.ErrorResponse "Client key missing"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Server configuration error"
// @Security BearerAuth
// @Router /signup [post]
func (c *AccountController) Signup(ctx *gin.Context) {
	c.logger.Debug().Msg("Signup endpoint called")

	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.accountService.CreateUserAccount(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("Account created")
	ctx.JSON(http.StatusCreated, dto.SignupResponse{Success: true, User: *user})
}

// Login handles credential login
// @Summary Log in
// @Description Verifies the credentials and issues a bearer token
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /login [post]
func (c *AccountController) Login(ctx *gin.Context) {
	c.logger.Debug().Msg("Login endpoint called")

	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.accountService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetProfile returns a user profile
// @Summary Get user profile
// @Description Returns the stored profile of the user
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.UserProfile "User profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{userId} [get]
func (c *AccountController) GetProfile(ctx *gin.Context) {
	userID := ctx.Param("userId")
	c.logger.Debug().Str("userID", userID).Msg("GetProfile endpoint called")

	profile, err := c.accountService.GetUserProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile merges top-level fields into a user profile
// @Summary Update user profile
// @Description Overwrites the given top-level fields of the profile. The id field cannot be changed.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param request body object true "Fields to update"
// @Success 200 {object} models.UserProfile "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{userId} [put]
func (c *AccountController) UpdateProfile(ctx *gin.Context) {
	userID := ctx.Param("userId")
	c.logger.Debug().Str("userID", userID).Msg("UpdateProfile endpoint called")

	var updates map[string]interface{}
	if !middleware.BindJSON(ctx, &updates) {
		return
	}

	profile, err := c.accountService.UpdateUserProfile(ctx.Request.Context(), userID, updates)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// RecordActivity stores a user activity event
// @Summary Record user activity
// @Description Updates the user's counters and appends the event to today's activity log
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ActivityRequest true "Activity event"
// @Success 200 {object} dto.SuccessResponse "Activity recorded"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activity [post]
func (c *AccountController) RecordActivity(ctx *gin.Context) {
	var req dto.ActivityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.activityService.RecordUserActivity(ctx.Request.Context(), req.UserID, req.Activity, req.Metadata); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
