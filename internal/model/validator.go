package model

import (
	"github.com/go-playground/validator/v10"

	"github.com/StrayFurther/TimeTrack/internal/validate"
)

var structValidator = newValidator()

// newValidator builds the request validator with the custom userpassword
// rule, which applies the same policy the client-side form validator uses.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value != "" && validate.Password(value) == nil
	}))

	return v
}

// Validate checks a request struct against its validate tags.
func Validate(s any) error {
	return structValidator.Struct(s)
}
