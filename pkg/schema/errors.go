package schema

import (
	"fmt"
	"strings"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/go-playground/validator/v10"
)

// ValidationError aggregates per-field validation failures.
type ValidationError struct {
	Details []apierror.Detail
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, fmt.Sprintf("%s: %s", d.Path, d.Message))
	}
	return "schema: validation failed: " + strings.Join(msgs, "; ")
}

// detailFor converts a ValidateMap failure into a response detail.
func detailFor(field string, err any) apierror.Detail {
	detail := apierror.Detail{
		Path:    field,
		Message: fmt.Sprintf("Field '%s' is invalid", field),
		Code:    apierror.CodeValidationError,
	}

	vErr, ok := err.(validator.ValidationErrors)
	if !ok || len(vErr) == 0 {
		return detail
	}

	detail.Message = messageFor(field, vErr[0])
	return detail
}

// messageFor returns a user-facing message for a validation failure.
func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", field)
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address", field)
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("Field '%s' failed validation on '%s'", field, fe.Tag())
	}
}
