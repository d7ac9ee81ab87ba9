package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Init configures the global validator used by Gin's binding.
// Errors report JSON field names; "pwd" is a length alias and "strongpwd"
// enforces the registration password policy.
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

// Register installs the tag-name func, aliases and custom rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8,max=72")
	_ = v.RegisterValidation("strongpwd", strongPassword)
}

// strongPassword: 8..32 characters with a digit, a lower-case letter, an
// upper-case letter and a character that is neither letter nor digit.
// Whitespace counts as the latter.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	n := len([]rune(s))
	if n < 8 || n > 32 {
		return false
	}
	var digit, lower, upper, special bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		default:
			special = true
		}
	}
	return digit && lower && upper && special
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return map[string]string{ute.Field: "must be a " + ute.Type.String()}
		}
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return map[string]string{fe.Field: fe.Message}
	}

	return map[string]string{"payload": "invalid payload"}
}

// FieldError is a decoding failure tied to one field, e.g. a tags value of the wrong shape.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url", "http_url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "len":
		return "must be exactly " + param + " characters"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "strongpwd":
		return "must be 8-32 characters with upper and lower case letters, a digit and a symbol"
	case "dive":
		return "contains an invalid element"
	}
	return "is invalid (" + fe.Tag() + ")"
}
