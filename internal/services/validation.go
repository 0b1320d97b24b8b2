package services

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	matricPattern = regexp.MustCompile(`^\d{4}/\d{6}$`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("matric", func(fl validator.FieldLevel) bool {
		return matricPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("haslower", func(fl validator.FieldLevel) bool {
		return lowerPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidationError carries one message per offending field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, " ")
}

// First returns the message of the first field in form order.
func (e *ValidationError) First(order ...string) string {
	for _, f := range order {
		if msg, ok := e.Fields[f]; ok {
			return msg
		}
	}
	return e.Error()
}

func newFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// messages maps "field.tag" to the text shown under the form control.
type messages map[string]string

var commonMessages = messages{
	"email.required":      "Invalid email address.",
	"email.email":         "Invalid email address.",
	"password.required":   "Password must be at least 8 characters.",
	"password.min":        "Password must be at least 8 characters.",
	"password.haslower":   "Password must contain a lowercase letter.",
	"full_name.min":       "Full name must be at least 3 characters.",
	"full_name.required":  "Full name must be at least 3 characters.",
	"matric_no.required":  "Matric number must follow the format 2021/297854.",
	"matric_no.matric":    "Matric number must follow the format 2021/297854.",
	"staff_id.required":   "Staff ID must be at least 4 characters.",
	"staff_id.min":        "Staff ID must be at least 4 characters.",
	"staff_id.alphanum":   "Staff ID must be alphanumeric.",
	"department.eq":       "Department must be Computer Science.",
	"department.required": "Department must be Computer Science.",
}

// validateStruct runs the struct's validate tags and converts failures into
// a ValidationError, using extra before the common messages.
func validateStruct(s interface{}, extra messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string)}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := out.Fields[field]; seen {
			continue
		}
		key := field + "." + fe.Tag()
		msg, ok := extra[key]
		if !ok {
			msg, ok = commonMessages[key]
		}
		if !ok {
			msg = field + " is invalid."
		}
		out.Fields[field] = msg
	}
	return out
}
