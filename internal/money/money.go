// Package money converts between user-facing decimal amounts and the integer
// minor-unit (cent) representation used everywhere else. Amounts are never
// handled as floats.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has more than two decimal places")
)

var hundred = decimal.NewFromInt(100)

// ToCents parses a decimal amount string ("12.50") into cents (1250).
func ToCents(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := parsed.Mul(hundred)
	if !cents.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	if !cents.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// FromCents formats cents as a decimal string with two places.
func FromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
