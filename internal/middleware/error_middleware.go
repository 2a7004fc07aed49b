package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/logger"
)

const msgInternalServer = "Internal server error"

// HandleAPIError maps an error to its HTTP status and writes the error body.
// Messages of CustomErrors are meant for clients; anything else is reported as
// an internal error and only logged.
func HandleAPIError(c *gin.Context, err error) {
	status, code, fallback := classify(err)

	message := fallback
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	resp := dto.NewErrorResponse(code, message)
	if custom != nil {
		if custom.Suggestion != "" {
			resp.WithSuggestion(custom.Suggestion)
		}
		if custom.Details != nil {
			resp.WithDetails(custom.Details)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(unwrapCause(err)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrContentRejected):
		return http.StatusBadRequest, dto.ErrorCodeContentRejected, "Content rejected"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrServerConfiguration):
		return http.StatusInternalServerError, dto.ErrorCodeConfiguration, "Server configuration error"
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, msgInternalServer
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, msgInternalServer
	}
}

// unwrapCause returns the wrapped error of a CustomError so logs carry the real cause
func unwrapCause(err error) error {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Err != nil {
		return custom.Err
	}
	return err
}
