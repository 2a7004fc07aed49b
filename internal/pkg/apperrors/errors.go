package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrContentRejected  = errors.New("content rejected")

	// User errors
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Infrastructure errors
	ErrServerConfiguration = errors.New("server configuration error")
	ErrUpstream            = errors.New("upstream failure")
)

// NewValidationError creates a new custom error for a user-correctable request problem
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewContentRejectedError creates an error for submissions blocked by the content filter
func NewContentRejectedError(message, suggestion string) *CustomError {
	return &CustomError{
		Err:        ErrContentRejected,
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewServerConfigurationError is returned when required credentials or settings are absent
func NewServerConfigurationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrServerConfiguration,
		Message: message,
	}
}

// NewUpstreamError wraps a failure of the identity provider or the KV store.
// The cause is kept for logs; clients only ever see a generic message.
func NewUpstreamError(message string, cause error) *CustomError {
	return &CustomError{
		Err:     errors.Join(ErrUpstream, cause),
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err        error
	Message    string
	Suggestion string
	Details    map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithSuggestion adds a hint on how the caller can fix the request
func (e *CustomError) WithSuggestion(suggestion string) *CustomError {
	e.Suggestion = suggestion
	return e
}
