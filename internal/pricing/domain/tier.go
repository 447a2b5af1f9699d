// Package domain holds the square-footage pricing rules. Everything here is
// pure so the live quote and the submission builder share one definition.
package domain

import (
	"strconv"
	"strings"
)

// Tier is a square-footage bracket used to select a price.
type Tier string

const (
	TierUnder1500  Tier = "under_1500"
	Tier1500To2500 Tier = "1500_to_2500"
	TierOver2500   Tier = "over_2500"
)

const (
	tierLowerBound = 1500
	tierUpperBound = 2500
)

const (
	// MinSquareFootage is the smallest living area accepted as real data.
	MinSquareFootage = 200
	// DefaultSquareFootage keeps prices displayable when no usable figure
	// exists. It lands in the middle tier and asserts nothing about the home.
	DefaultSquareFootage = 1500
	// MaxSquareFootage rejects entries no home reaches.
	MaxSquareFootage = 1_000_000
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierUnder1500, Tier1500To2500, TierOver2500}

// TierFor maps a living area to its tier. Both 1500 and 2500 belong to the
// middle tier.
func TierFor(sqft int) Tier {
	switch {
	case sqft < tierLowerBound:
		return TierUnder1500
	case sqft <= tierUpperBound:
		return Tier1500To2500
	default:
		return TierOver2500
	}
}

// ParseTier validates a tier name from user input.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.TrimSpace(s))
	for _, known := range Tiers {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// SquareFootageSource records where the figure used for pricing came from.
type SquareFootageSource string

const (
	SourceProperty SquareFootageSource = "property"
	SourceUser     SquareFootageSource = "user"
	SourceDefault  SquareFootageSource = "default"
)

// ResolveSquareFootage picks the living area used for pricing: the
// authoritative property figure if usable, else the user's entry if usable,
// else DefaultSquareFootage.
func ResolveSquareFootage(authoritative int, userEntered string) (int, SquareFootageSource) {
	if authoritative >= MinSquareFootage {
		return authoritative, SourceProperty
	}
	if v, ok := ParseSquareFootage(userEntered); ok && v >= MinSquareFootage {
		return v, SourceUser
	}
	return DefaultSquareFootage, SourceDefault
}

// ParseSquareFootage reads a user-entered figure such as "1,850" or "1850 sq ft".
func ParseSquareFootage(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "sqft")
	s = strings.TrimSuffix(s, "sq ft")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, v > 0 && v <= MaxSquareFootage
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f > MaxSquareFootage {
		return 0, false
	}
	return int(f), true
}

// NeedsUserSquareFootage reports whether the property data is missing or too
// small to price from, so the user must supply a figure.
func NeedsUserSquareFootage(authoritative int) bool {
	return authoritative < MinSquareFootage
}

// AppraisalBandPrice prices an appraisal with no tabulated row:
// under 2000 sq ft 450, 2000-2999 500, 3000-3999 550, 4000 and up 600.
func AppraisalBandPrice(sqft int) float64 {
	switch {
	case sqft < 2000:
		return 450
	case sqft < 3000:
		return 500
	case sqft < 4000:
		return 550
	default:
		return 600
	}
}
