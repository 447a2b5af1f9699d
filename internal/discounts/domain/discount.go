// Package domain holds the discount arithmetic.
package domain

import (
	"math"
	"strings"
)

// Type is how a discount value is applied.
type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// Valid reports whether t is a known discount type.
func (t Type) Valid() bool {
	return t == TypePercentage || t == TypeFixed
}

// NormalizeCode is the lookup form of a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Amount computes the discount on subtotal. Percentages are rounded to the
// nearest whole unit; fixed values are capped at the subtotal. The result is
// never negative and never above the subtotal.
func Amount(t Type, value, subtotal float64) float64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}
	var amount float64
	switch t {
	case TypePercentage:
		amount = math.Round(subtotal * value / 100)
	case TypeFixed:
		amount = value
	default:
		return 0
	}
	return math.Min(amount, subtotal)
}

// Resolution is the outcome of checking a code against a subtotal.
type Resolution struct {
	IsValid     bool    `json:"isValid"`
	Code        string  `json:"code"`
	Type        Type    `json:"type,omitempty"`
	Value       float64 `json:"value,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Invalid is the resolution of an unknown, inactive or failed code.
func Invalid(code string) Resolution {
	return Resolution{Code: NormalizeCode(code)}
}
