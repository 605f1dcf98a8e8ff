// Package validation wires go-playground/validator with the storefront's form
// rules and turns failures into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
	streetRegex     = regexp.MustCompile(`^[a-zA-Z0-9\s/,.'-]+$`)
	digitsRegex     = regexp.MustCompile(`^\d+$`)
	nonDigitRegex   = regexp.MustCompile(`\D`)
)

// Messages maps "field.tag" to the message shown for that failure.
type Messages map[string]string

// New returns a validator with the custom tags used by the storefront forms.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "street", func(fl validator.FieldLevel) bool {
		return streetRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "digitsmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(DigitsOnly(fl.Field().String())) >= n
	})
	mustRegister(v, "digitsmax", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(DigitsOnly(fl.Field().String())) <= n
	})
	mustRegister(v, "hasletter", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), isASCIILetter) >= 0
	})
	mustRegister(v, "hasdigit", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
	})
	mustRegister(v, "nospace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Categories, models.Category(fl.Field().String()))
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// Struct validates form and returns a VALIDATION_ERROR AppError listing the
// first failure of every invalid field, in declaration order.
func Struct(v *validator.Validate, form any, messages Messages) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	fields := make(appErrors.ValidationErrors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, appErrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe, messages),
		})
	}

	return appErrors.FieldValidationError(fields)
}

func message(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", fe.Field())
	case "email":
		return fmt.Sprintf("Field %s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("Field %s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Field %s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("Field %s must be exactly %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("Field %s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
