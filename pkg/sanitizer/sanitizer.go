// Package sanitizer normalizes user-supplied display strings before
// validation and storage. All functions are idempotent and never error;
// invalid input collapses to the empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace, collapses internal runs
// of whitespace to a single space, and strips control characters.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// dropped
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a person's display name as entered in the
// booked_by field or at registration.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases and trims an email address for use as a
// unique account key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
