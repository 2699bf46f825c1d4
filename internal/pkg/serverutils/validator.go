package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"raw-ai-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tags and returns a ValidationError naming the first bad field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.NewValidation("invalid request")
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperror.NewValidation("%s is required", field)
	case "email":
		return apperror.NewValidation("%s must be a valid email", field)
	case "oneof":
		return apperror.NewValidation("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return &apperror.ValidationError{Message: fmt.Sprintf("%s is invalid", field)}
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
