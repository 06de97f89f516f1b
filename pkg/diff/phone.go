package diff

import "strings"

// NormalizePhone strips formatting from a phone number and drops a leading
// North American country code from 11 digit numbers.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' { //nolint:mnd
		return digits[1:]
	}
	return digits
}

// PhonesMatch reports whether a and b are the same phone number.
// Blank input on either side never matches.
func PhonesMatch(a, b string) bool {
	na := NormalizePhone(a)
	nb := NormalizePhone(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// ContainsPhone reports whether phone matches any of candidates.
func ContainsPhone(candidates []string, phone string) bool {
	for _, c := range candidates {
		if PhonesMatch(c, phone) {
			return true
		}
	}
	return false
}
