package apperr

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages line up with the request.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Messages maps a failing field to the user-facing message. Keys are
// "field.tag" for a specific rule or "field" for any rule on that field.
type Messages map[string]string

// Check validates s with its `validate` struct tags. The first failing
// field becomes a Validation error carrying the matching message.
func Check(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Validation("", "Invalid input.")
	}
	fe := fieldErrs[0]
	return Validation(fe.Field(), messages.lookup(fe.Field(), fe.Tag()))
}

// CheckVar validates a single value against tag.
func CheckVar(value any, tag, field, message string) error {
	if err := validate.Var(value, tag); err != nil {
		return Validation(field, message)
	}
	return nil
}

func (m Messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return "Invalid " + field + "."
}
