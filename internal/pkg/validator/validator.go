package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate runs struct tag validation against s.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator returns the shared validator instance for custom registration.
func GetValidator() *validator.Validate {
	return validate
}
