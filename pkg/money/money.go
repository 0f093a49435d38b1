// Package money validates and formats fixed-precision decimal amounts.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Places is the number of fraction digits stored for every amount.
	Places = 2
	// PriceDigits is the total precision of numeric(10,2) columns.
	PriceDigits = 10
	// AmountDigits is the total precision of numeric(12,2) columns.
	AmountDigits = 12
)

// CheckPrecision reports whether value fits a numeric(digits, Places) column.
func CheckPrecision(value decimal.Decimal, digits int) error {
	if value.Exponent() < -Places && !value.Equal(value.Truncate(Places)) {
		return fmt.Errorf("must have at most %d decimal places", Places)
	}
	integerDigits := digits - Places
	limit := decimal.New(1, int32(integerDigits))
	if value.Abs().GreaterThanOrEqual(limit) {
		return fmt.Errorf("must have at most %d digits before the decimal point", integerDigits)
	}
	return nil
}

// Parse reads a decimal string and checks it against the column precision.
func Parse(raw string, digits int) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("must be a valid decimal number")
	}
	if err := CheckPrecision(value, digits); err != nil {
		return decimal.Decimal{}, err
	}
	return value, nil
}

// Format renders the amount with exactly two fraction digits.
func Format(value decimal.Decimal) string {
	return value.StringFixed(Places)
}
