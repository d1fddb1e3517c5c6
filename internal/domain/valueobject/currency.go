// Package valueobject contains domain value objects.
package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CurrencyCode is a validated ISO 4217 alphabetic code.
type CurrencyCode string

// ParseCurrency validates an ISO 4217 code. Input is trimmed and upper-cased.
func ParseCurrency(code string) (CurrencyCode, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", false
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return CurrencyCode(unit.String()), true
}

// IsValidCurrency reports whether code is a recognized ISO 4217 code.
func IsValidCurrency(code string) bool {
	_, ok := ParseCurrency(code)
	return ok
}

// String returns the code.
func (c CurrencyCode) String() string {
	return string(c)
}

// Scale returns the number of minor-unit digits (USD 2, JPY 0).
// Unknown codes fall back to 2.
func (c CurrencyCode) Scale() int32 {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Epsilon is half of the smallest currency unit.
// Balances and residues within epsilon of zero count as settled.
func (c CurrencyCode) Epsilon() decimal.Decimal {
	return decimal.New(5, -(c.Scale() + 1))
}

// Round rounds an amount to the currency's minor unit.
func (c CurrencyCode) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.Scale())
}
