// Package phone normalizes the contact numbers frozen onto cases at
// conversion time. Numbers arrive from lead intake in whatever shape the
// client typed them.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Bare national numbers are parsed as Indian; the subsidy schemes this
// service processes are India-only.
const defaultRegion = "IN"

// NormalizeE164 formats a number to E.164. Input that cannot be parsed or is
// not a valid number comes back trimmed but otherwise untouched, so a bad
// number is stored as entered rather than rejected.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
