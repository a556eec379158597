// Package validation checks request payloads against declarative per-operation
// schemas expressed as struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"site-catalog/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("nonblank", nonBlank)
}

// Struct validates v against its `validate` tags. Failures are returned as a
// *domain.ValidationError keyed by JSON field name.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "nonblank":
		return fmt.Sprintf("The %s field is required.", humanize(fe.Field()))
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", humanize(fe.Field()), fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must reference an existing record.", humanize(fe.Field()))
	default:
		return fmt.Sprintf("The %s field is invalid.", humanize(fe.Field()))
	}
}

func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
