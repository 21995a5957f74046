package service

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

// normalizeOptional trims an optional string pointer, turning blanks into nil.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validationError flattens validator failures into a field -> messages map so
// callers receive a 422 with per-field errors.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := snakeCase(fe.Field())
			fields[name] = append(fields[name], validationMessage(fe))
		}
		return appErrors.WithFields(message, fields)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
