// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"cep_address_backend/platform/cep"

	"github.com/go-playground/validator/v10"
)

// TagCEP validates a string in NNNNNNNN or NNNNN-NNN form.
const TagCEP = "cep"

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the cep tag registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(TagCEP, validateCEP)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// FirstMessage renders the first field error of err as a short human message.
// Non-validation errors are returned as-is.
func FirstMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case TagCEP:
		return fe.Field() + " must be in the format 00000-000 or 00000000"
	default:
		return fe.Field() + " is invalid"
	}
}

func validateCEP(fl validator.FieldLevel) bool {
	return cep.MatchesPattern(fl.Field().String())
}
