package validation

import "strings"

// NormalizePhone keeps the digits of a Vietnamese phone number and rewrites
// the +84/84 country prefix to the domestic leading zero.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// 84xxxxxxxxx is 11 digits; a domestic 84... number would start with 0
	if strings.HasPrefix(digits, "84") && len(digits) == 11 {
		digits = "0" + strings.TrimPrefix(digits, "84")
	}
	return digits
}

// IsPhone reports whether phone normalizes to a 10 or 11 digit number
// starting with 0.
func IsPhone(phone string) bool {
	n := NormalizePhone(phone)
	return strings.HasPrefix(n, "0") && len(n) >= 10 && len(n) <= 11
}
