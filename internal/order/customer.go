package order

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var basicEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

var fieldNames = map[string]string{
	"FullName": "fullName",
	"Email":    "email",
}

var messages = map[string]string{
	"fullName.required": "Please enter your full name",
	"email.required":    "Please enter your email address",
	"email.basicemail":  "Please enter a valid email address",
}

// Normalized trims surrounding whitespace from every field.
func (c Customer) Normalized() Customer {
	return Customer{
		FullName: strings.TrimSpace(c.FullName),
		Email:    strings.TrimSpace(c.Email),
	}
}

// Validate returns an *InputError keyed by form field names.
func (c Customer) Validate() error {
	c = c.Normalized()

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	inputErr := newInputError()

	for _, fe := range vErrs {
		field := fieldNames[fe.StructField()]

		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Please check this field"
		}

		inputErr.addError(field, msg)
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}
