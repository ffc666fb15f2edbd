// Package money normalizes the decimal amounts used for prices, fees and
// wallet balances.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidAmount is returned when a value cannot be read as a finite number.
var ErrInvalidAmount = errors.New("invalid amount")

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Parse reads an amount from a JSON-decoded value. Strings may use either a
// comma or a dot as the decimal separator. Non-finite results are rejected
// rather than coerced to zero.
func Parse(v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidAmount
	}
	return Round2(f), nil
}

// Clamp returns v rounded to two decimals and never below zero. Unreadable
// values degrade to zero; this is the lenient path used when normalizing
// stored wallet balances, not when validating input.
func Clamp(v any) float64 {
	f := cast.ToFloat64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return Round2(f)
}
