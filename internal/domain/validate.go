package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks struct-tag constraints and reports them as a *ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(ve))}
	for _, f := range ve {
		out.Fields[f.Field()] = describe(f)
	}
	return out
}

func describe(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + f.Param()
	case "min":
		return "must be at least " + f.Param()
	case "oneof":
		return "must be one of [" + f.Param() + "]"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' tag", f.Tag())
	}
}
