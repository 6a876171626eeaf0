package utils

import (
	"strings"
)

// NormalizePhone reduces a phone number to a canonical "+<digits>" form:
// formatting characters are stripped, a leading 00 becomes +, and a bare
// 10-digit number is assumed to be US/Canada and prefixed with +1. The
// heuristic cannot recover a true country code that was never entered, so
// MatchPhone keeps a last-10-digit fallback for that case.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
		// everything else is formatting: spaces, dashes, parens, dots
	}
	s := b.String()
	if s == "" || s == "+" {
		return ""
	}

	if strings.HasPrefix(s, "+") {
		return s
	}
	if strings.HasPrefix(s, "00") {
		return "+" + s[2:]
	}
	if len(s) == 10 {
		return "+1" + s
	}
	if len(s) == 11 && strings.HasPrefix(s, "1") {
		return "+" + s
	}
	return "+" + s
}

// lastDigits returns up to n trailing digits of a normalized number.
func lastDigits(normalized string, n int) string {
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}

// MatchPhone reports whether two raw phone numbers refer to the same line.
// Full normalized strings are compared first; on mismatch the last 10
// digits are compared as a fallback for country-code disagreements (e.g.
// "+14155550123" vs "(415) 555-0123"). Numbers shorter than 10 digits get
// no fallback, which keeps short extensions from matching everything.
func MatchPhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	la, lb := lastDigits(na, 10), lastDigits(nb, 10)
	if len(la) < 10 || len(lb) < 10 {
		return false
	}
	return la == lb
}
