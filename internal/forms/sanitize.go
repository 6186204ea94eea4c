package forms

import "strings"

// SanitizePhone strips everything but digits and commas at input time, the
// phone-field policy across all forms.
func SanitizePhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeMeasurement keeps digits and at most one decimal point.
func SanitizeMeasurement(input string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}
