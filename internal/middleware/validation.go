package middleware

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/validation"
)

const msgMissingFields = "Missing required fields"

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the domain rules on gin's validator engine
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}
		registerErr = validation.Register(v)
	})
	return registerErr
}

// BindJSON decodes and validates the request body into obj. On failure the
// error response is written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

// BindQuery is BindJSON for query parameters
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("Invalid request format")
	}

	fields := make(map[string]interface{}, len(verrs))
	missing := false
	for _, fe := range verrs {
		fields[fe.Field()] = validation.Describe(fe)
		if fe.Tag() == "required" {
			missing = true
		}
	}

	if missing {
		return apperrors.NewValidationError(msgMissingFields).WithDetails(fields)
	}
	return apperrors.NewValidationError(validation.Describe(verrs[0])).WithDetails(fields)
}
