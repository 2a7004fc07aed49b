// Package validation registers the domain rules used in request binding tags.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/mindcare/internal/app/models"
)

// Custom tags
const (
	// TagRiskLevel accepts low, moderate, high and crisis
	TagRiskLevel = "risklevel"
	// TagRole accepts student, counselor and admin
	TagRole = "role"
)

// Register installs the custom rules on v and makes field errors report JSON names
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(TagRiskLevel, func(fl validator.FieldLevel) bool {
		return models.RiskLevel(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagRiskLevel, err)
	}
	if err := v.RegisterValidation(TagRole, func(fl validator.FieldLevel) bool {
		return models.RoleType(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagRole, err)
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// Describe creates a human-readable message for one failed rule
func Describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "datetime":
		return e.Field() + " must match the format " + e.Param()
	case TagRiskLevel:
		return e.Field() + " must be one of: low moderate high crisis"
	case TagRole:
		return e.Field() + " must be one of: student counselor admin"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
