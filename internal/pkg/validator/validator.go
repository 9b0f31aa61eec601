package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"workpay-backend/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return domain.ValidPaymentMethod(fl.Field().String())
		})
		_ = instance.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return domain.ValidRole(fl.Field().String())
		})
		_ = instance.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
			return domain.ValidReportType(fl.Field().String())
		})
	})
	return instance
}

// Struct validates s against its `validate` tags.
// Failures are returned as domain.ErrValidation listing the offending fields.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return domain.Validationf("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "email":
		return field + " must be a valid email"
	case "payment_method", "role", "report_type":
		return fmt.Sprintf("%s %q is not supported", field, fe.Value())
	default:
		return field + " is invalid"
	}
}
