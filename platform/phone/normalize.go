// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// IsValid reports whether input parses as a dialable number, assuming the
// US region when no country code is given.
func IsValid(input string) bool {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(number)
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Display formats a number for humans, e.g. "(201) 555-0123".
func Display(input string) string {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return strings.TrimSpace(input)
	}
	return phonenumbers.Format(number, phonenumbers.NATIONAL)
}
