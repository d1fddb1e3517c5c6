package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/groupledger/backend/internal/domain/valueobject"
)

// DateLayout is the calendar date format used in requests and responses.
const DateLayout = time.DateOnly

// RegisterValidations adds the custom binding tags used by request DTOs.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", validateDate)
}

func validateCurrency(fl validator.FieldLevel) bool {
	return valueobject.IsValidCurrency(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// ParseDate parses an optional request date. Empty input yields the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, value)
}
