package utils

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9]{3,15}$`)
	phoneSpacing = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator returns the shared validator with the custom "phone" rule registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRegex.MatchString(NormalizePhone(fl.Field().String()))
		})
	})
	return validate
}

// NormalizePhone strips the separators people type into phone numbers
func NormalizePhone(phone string) string {
	return phoneSpacing.Replace(strings.TrimSpace(phone))
}

// ValidateStruct runs struct tag validation and converts the first failure
// into a ValidationError with a readable message.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: "Please fill in all fields."}
	case "email":
		return &ValidationError{Field: field, Message: "Email address is not valid"}
	case "phone":
		return &ValidationError{Field: field, Message: "Phone number is not valid"}
	case "oneof":
		return &ValidationError{Field: field, Message: field + " must be one of: " + fe.Param()}
	default:
		return &ValidationError{Field: field, Message: field + " is not valid"}
	}
}
