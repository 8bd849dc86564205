package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

// Init hooks custom rules into gin's binding validator.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
		_ = v.RegisterValidation("dec_gte0", decimalNonNegative)
		_ = v.RegisterValidation("dec_pct", decimalPercent)
		_ = v.RegisterValidation("dec_kg", decimalKilograms)
	}
}

// decimalNonNegative accepts decimal.Decimal values >= 0.
func decimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative()
}

// decimalPercent accepts decimal.Decimal values in [0, 100].
func decimalPercent(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// KilogramPlaces matches the collection_items.kilograms column, DECIMAL(12,3).
const KilogramPlaces = 3

// decimalKilograms rejects weights finer than a gram. Postgres would round
// them on insert, so the stored item would no longer match what was settled.
// Trailing zeros ("2.5000") are fine.
func decimalKilograms(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Equal(d.Truncate(KilogramPlaces))
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request parameters"
	}

	var errMsgs []string
	for _, e := range validationErrors {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("%s is required", field))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must have at least %s entries", field, param))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must not exceed %s", field, param))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must be one of [%s]", field, param))
		case "dec_gte0":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must not be negative", field))
		case "dec_pct":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must be between 0 and 100", field))
		case "dec_kg":
			errMsgs = append(errMsgs, fmt.Sprintf("%s must have at most %d decimal places", field, KilogramPlaces))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("%s failed validation (%s)", field, e.Tag()))
		}
	}
	return strings.Join(errMsgs, "; ")
}
