package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	ErrMinValue = "must be at least %s"
	ErrMaxValue = "must be at most %s"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("payment_method", validatePaymentMethod)

	return validator
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := fl.Field().String()

	return method == "WALLET" || method == "CARD"
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "unique":
		return "must not contain duplicates"
	case "uuid4":
		return "must be a valid UUID"
	case "payment_method":
		return "must be one of WALLET or CARD"
	default:
		return "is invalid"
	}
}
