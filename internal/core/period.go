package core

import (
	"fmt"
	"regexp"
	"time"
)

// periodPattern matches a monthly bucket key: zero-padded 4-digit year,
// dash, zero-padded month 01-12.
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// DerivePeriod maps a calendar date to its monthly bucket key ("YYYY-MM").
// Every valid date maps to exactly one key.
func DerivePeriod(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}

// ValidatePeriod checks a caller-supplied period string against the fixed
// YYYY-MM format. Malformed strings are rejected before they reach the store.
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("%w: %q", ErrMalformedPeriod, period)
	}
	return nil
}
