package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var simpleEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// New returns a validator with the simple_email rule registered.
// simple_email accepts anything shaped local@domain.tld.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return simpleEmail.MatchString(fl.Field().String())
	})
	return v
}

// FailedTags returns the set of tags that failed, keyed by tag name.
func FailedTags(err error) map[string]bool {
	tags := map[string]bool{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			tags[e.Tag()] = true
		}
	}
	return tags
}

// Message turns the first validation failure into a sentence for the client.
func Message(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid request"
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "simple_email":
		return "Invalid email format"
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
