package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps the go-playground validator. Errors name fields by their JSON key.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or a nil func
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("maxbytes", maxBytes)
	return &Validator{validate: validate}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// MaxPasswordBytes is the longest password the bcrypt hasher accepts
const MaxPasswordBytes = 72

var (
	fieldValidate      = validator.New()
	errInvalidEmail    = errors.New("deve ser um email válido")
	errPasswordTooLong = fmt.Errorf("deve ter no máximo %d bytes", MaxPasswordBytes)
)

// maxBytes limits the UTF-8 length of a string, unlike max which counts runes
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Email checks a single value with the same rule as the `email` tag
func Email(value interface{}) error {
	if fieldValidate.Var(value, "required,email") != nil {
		return errInvalidEmail
	}
	return nil
}

// Password checks a password value against MaxPasswordBytes
func Password(value interface{}) error {
	if s, ok := value.(string); ok && len(s) > MaxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
}

// FirstError returns the message of the first failing field, in struct order
func FirstError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return message(validationErrs[0])
	}
	return "Dados inválidos"
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("campo '%s' é obrigatório", field)
	case "email":
		return fmt.Sprintf("campo '%s' deve ser um email válido", field)
	case "min":
		return fmt.Sprintf("campo '%s' deve ter no mínimo %s caracteres", field, e.Param())
	case "max":
		return fmt.Sprintf("campo '%s' deve ter no máximo %s caracteres", field, e.Param())
	case "maxbytes":
		return fmt.Sprintf("campo '%s' deve ter no máximo %s bytes", field, e.Param())
	case "gte":
		return fmt.Sprintf("campo '%s' deve ser maior ou igual a %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("campo '%s' deve ser menor ou igual a %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("campo '%s' deve ser maior que %s", field, e.Param())
	case "notblank":
		return fmt.Sprintf("campo '%s' não pode ser vazio", field)
	default:
		return fmt.Sprintf("campo '%s' é inválido", field)
	}
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
