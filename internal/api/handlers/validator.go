package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/isdelr/credential-api/internal/services"
	"gopkg.in/go-playground/validator.v9"
)

// Validator checks request payloads against their `validate` tags.
type Validator struct {
	validator *validator.Validate
}

// NewValidator returns a Validator that reports fields by their JSON name and
// understands the "nocontrol" tag, which rejects invalid UTF-8 and control
// characters. It panics if the tag cannot be registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("nocontrol", noControl); err != nil {
		panic(fmt.Sprintf("register nocontrol validation: %v", err))
	}
	return &Validator{validator: v}
}

func noControl(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && strings.IndexFunc(s, unicode.IsControl) < 0
}

// Validate returns a *services.ValidationError for the first failing field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return services.NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "nocontrol":
		return "must be valid UTF-8 without control characters"
	default:
		return "is invalid"
	}
}
