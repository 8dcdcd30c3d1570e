// Package validation wraps struct validation for request payloads.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the JSON field name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct validates s against its `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FirstError returns a short human-readable description of the first
// validation failure, or the raw error text for non-validation errors.
func FirstError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "url":
			return fe.Field() + " must be a valid URL"
		default:
			return fe.Field() + " failed " + fe.Tag() + " validation"
		}
	}
	return err.Error()
}
