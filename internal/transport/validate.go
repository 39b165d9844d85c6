package transport

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/phone_market/internal/domain"
)

var (
	validate = newValidator()

	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.ToLower(fld.Name[:1]) + fld.Name[1:]
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	return v
}

// Validate checks struct tags and reports failures as domain.FieldErrors
// keyed by JSON path, for example "shippingAddress.city" or "items[0].quantity".
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fe := domain.FieldErrors{}
	for _, ve := range verrs {
		fe.Add(fieldPath(ve), message(ve))
	}
	return fe
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

func message(ve validator.FieldError) string {
	field := ve.Field()
	switch ve.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if ve.Kind() == reflect.Slice || ve.Kind() == reflect.Map {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, ve.Param())
		}
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, ve.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, ve.Param())
	case "max":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, ve.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, ve.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, ve.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, ve.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(ve.Param(), " ", ", "))
	case "email":
		return "Valid email is required"
	case "uuid":
		return fmt.Sprintf("Valid %s ID is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "e164", "phone":
		return "Valid phone number is required"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
