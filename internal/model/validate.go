package model

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// urlPattern accepts absolute http(s) URLs with a dotted host.
var urlPattern = regexp.MustCompile(`^https?://(www\.)?[0-9a-zA-Z]+([.|-]{1}[0-9a-zA-Z]+)*\.[0-9a-zA-Z-]+(/[0-9a-zA-Z\-._~:/?#\[\]@!$&'()*+,;=]*#?)?$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func IsHTTPURL(s string) bool {
	return urlPattern.MatchString(s)
}

// RegisterValidations adds the model-specific rules to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsHTTPURL(fl.Field().String())
	})
}

func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := RegisterValidations(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Validate checks the struct tags on a model.
func Validate(v any) error {
	return Validator().Struct(v)
}

// ValidatePartial checks only the named fields of a model.
func ValidatePartial(v any, fields ...string) error {
	return Validator().StructPartial(v, fields...)
}
