// Package validator wraps go-playground struct validation for the request
// DTOs in internal/model.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError is one failed constraint, keyed by the struct field path so the
// caller can name the offending field in its error message.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// uuid.UUID fields cannot use the stock "required" tag: the zero value
	// check does not see uuid.Nil as empty. uuid_required rejects it
	// explicitly.
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct reports every failed constraint on data, one FieldError per
// violation. An empty result means the struct passed.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
