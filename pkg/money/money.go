// Package money provides small helpers for working with monetary amounts.
//
// Amounts are shopspring decimals; currencies are opaque ISO 4217 style
// 3-letter codes carried alongside amounts and never converted.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Epsilon is the smallest amount the engine distinguishes from zero.
// Anything below one minor unit (cent) is treated as settled.
var Epsilon = decimal.NewFromFloat(0.01)

// ErrInvalidCurrency is returned for anything other than a 3-letter
// uppercase currency code.
var ErrInvalidCurrency = errors.New("currency must be a 3-letter uppercase code")

// ValidateCurrency checks that code is a 3-letter uppercase currency code.
// The engine never defaults a currency silently, so an empty code is an error.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: got %q", ErrInvalidCurrency, code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: got %q", ErrInvalidCurrency, code)
		}
	}
	return nil
}

// Round2 rounds an amount to two decimal places (minor units).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsNegligible reports whether the amount rounds to zero at the minor unit.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}
