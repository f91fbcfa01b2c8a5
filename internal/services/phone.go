package services

import "regexp"

// Permissive charset for raw phone input: digits, spaces, hyphens, parens, plus.
var reAllowedPhone = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// NormalizeDigits strips every non-digit character from the input.
func NormalizeDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// NormalizeNullablePhone passes a nil input through and normalizes a string to
// its digits. Input that normalizes to nothing collapses to nil: the store
// must never hold an empty-string phone.
func NormalizeNullablePhone(p *string) *string {
	if p == nil {
		return nil
	}
	digits := NormalizeDigits(*p)
	if digits == "" {
		return nil
	}
	return &digits
}

// IsValidOptionalPhone reports whether an optional phone field is acceptable.
// Absent or empty input is valid; anything else must match the permissive
// charset and normalize to 10 or 11 digits.
func IsValidOptionalPhone(p *string) bool {
	if p == nil || *p == "" {
		return true
	}
	if !reAllowedPhone.MatchString(*p) {
		return false
	}
	n := len(NormalizeDigits(*p))
	return n >= 10 && n <= 11
}
