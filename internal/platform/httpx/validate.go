package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Validator checks decoded request bodies against struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator that reports JSON field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates target, returning a *shared.ValidationError listing the
// offending fields.
func (v *Validator) Struct(target any) error {
	if err := v.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		names := make([]string, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			names = append(names, fieldErr.Field())
		}
		return shared.NewValidationError("invalid request", names...)
	}
	return nil
}

// Var validates a single value against a tag such as "email".
func (v *Validator) Var(value any, tag string) error {
	return v.validate.Var(value, tag)
}

// DecodeAndValidate decodes the body and validates it. Decode failures are
// reported as validation errors.
func DecodeAndValidate(r *http.Request, v *Validator, target any) error {
	if err := DecodeJSON(r, target); err != nil {
		return shared.NewValidationError(err.Error())
	}
	if v == nil {
		return nil
	}
	return v.Struct(target)
}
