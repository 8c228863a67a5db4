// Package validator checks console forms before they are sent to the fleet API.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/transport"
	apperrors "fleet-console/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)
	plateRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-]{1,14}$`)
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"role":             oneOf(account.AllRoles),
		"account_status":   oneOf(account.AllStatuses),
		"transport_status": oneOf(transport.AllStatuses),
		"asset_status":     oneOf(asset.AllStatuses),
		"driver_status":    oneOf(driver.AllStatuses),
		"activity_type":    oneOf(driver.AllActivityTypes),
		"phone":            validatePhone,
		"plate":            validatePlate,
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Check validates a form and wraps failures in a VALIDATION_ERROR app error
// whose message lists the offending fields.
func Check(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	msg := "Invalid input"
	if sum := Summary(FieldErrors(err)); sum != "" {
		msg += ": " + sum
	}
	return apperrors.NewAppError("VALIDATION_ERROR", msg, err)
}

func oneOf[T ~string](allowed []T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, a := range allowed {
			if string(a) == v {
				return true
			}
		}
		return false
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validatePlate(fl validator.FieldLevel) bool {
	return plateRe.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func IsValidEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// FieldErrors flattens validation errors into one message per form field.
// It returns nil when err carries no field errors.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// Summary joins field errors into a single notification line.
func Summary(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "phone":
		return "must be a valid phone number"
	case "plate":
		return "must be a valid license plate"
	case "role", "account_status", "transport_status", "asset_status", "driver_status", "activity_type", "oneof":
		return "has an unsupported value"
	case "datetime":
		return "has an invalid date"
	}
	return "is invalid"
}
