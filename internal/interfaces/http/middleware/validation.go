package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/interfaces/http/dto"
)

// Custom validation tags for catalog values
const (
	TagLeadType        = "lead_type"
	TagActionType      = "action_type"
	TagEngagementLevel = "engagement_level"
)

// SetupValidator configures gin's validator: errors name fields by their json
// or form tag, and the catalog tags check lead, action and engagement values.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterValidations(v)
}

// RegisterValidations installs the field naming and catalog tags on v
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	validations := map[string]validator.Func{
		TagLeadType: func(fl validator.FieldLevel) bool {
			_, err := billing.ParseLeadType(fl.Field().String())
			return err == nil
		},
		TagActionType: func(fl validator.FieldLevel) bool {
			_, err := billing.ParseActionType(fl.Field().String())
			return err == nil
		},
		TagEngagementLevel: func(fl validator.FieldLevel) bool {
			_, err := billing.ParseEngagementLevel(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gtefield":
		return "Must not be before " + e.Param()
	case TagLeadType:
		return "Unknown lead type"
	case TagActionType:
		return "Unknown action type"
	case TagEngagementLevel:
		return "Must be one of: Low Medium High"
	default:
		return "Invalid value"
	}
}
