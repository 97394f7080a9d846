// Package money handles storefront prices as decimals and renders them at
// the display boundary.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "$"
	displayPlaces  = 2
)

// Parse accepts "89.99", "$89.99" or " $ 89.99 " and returns the amount.
func Parse(value string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(value)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, currencySymbol))
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return amount, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(value string) decimal.Decimal {
	amount, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return amount
}

// Format renders the amount rounded to cents with the currency symbol.
func Format(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(displayPlaces)
}

// Round returns the amount rounded to cents.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(displayPlaces)
}
