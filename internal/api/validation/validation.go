// Package validation wires custom rules into gin's validator and turns
// binding failures into field-keyed messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FormKey collects errors that belong to the body as a whole.
const FormKey = "_errors"

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	registerOnce    sync.Once
	registerErr     error
)

// Register installs the json tag-name func and the custom rules on gin's
// default validator. Safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = errors.Join(
			v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return usernamePattern.MatchString(fl.Field().String())
			}),
			v.RegisterValidation("bcryptpw", func(fl validator.FieldLevel) bool {
				return len(fl.Field().String()) <= MaxPasswordBytes
			}),
		)
	})
	return registerErr
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Errors maps a bind error to field -> messages.
func Errors(err error) map[string][]string {
	out := make(map[string][]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = append(out[fe.Field()], message(fe))
		}
		return out
	}

	out[FormKey] = []string{bodyMessage(err)}
	return out
}

func bodyMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON body"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Invalid type for %s", typeErr.Field)
		}
		return "Invalid JSON value"
	default:
		return "Invalid request body"
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", capitalize(field), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", capitalize(field), fe.Param())
	case "username":
		return "Username can only contain alphanumeric characters and underscores"
	case "bcryptpw":
		return fmt.Sprintf("%s must be at most %d bytes", capitalize(field), MaxPasswordBytes)
	case "eqfield":
		return "Passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
