package utils

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}$`)
	slugRegex    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`(?i)on\w+="[^"]*"`)
)

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
}

// DescribeValidationError turns a binding error into field messages. Errors
// that are not validator errors (malformed JSON) come back as a single entry.
func DescribeValidationError(err error) FieldValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldValidationErrors{{Field: "body", Message: err.Error()}}
	}

	out := make(FieldValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "gt":
			msg = "must be greater than " + fe.Param()
		case "max":
			msg = "must be at most " + fe.Param() + " characters"
		case "phone":
			msg = "must be a valid phone number"
		case "slug":
			msg = "must contain lowercase letters, digits and dashes only"
		default:
			msg = "failed " + fe.Tag() + " validation"
		}
		out = append(out, FieldValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

// SanitizeString escapes HTML and strips tags and inline event handlers
func SanitizeString(input string) string {
	sanitized := jsEventRegex.ReplaceAllString(input, "")
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(html.EscapeString(sanitized))
}
