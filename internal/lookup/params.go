package lookup

import "strings"

var paramReplacer = strings.NewReplacer("\n", "_", "\r", "_", "\t", "_")

// SanitizeParam replaces line breaks and tabs in a request parameter so it
// can be logged safely.
func SanitizeParam(s string) string {
	return paramReplacer.Replace(s)
}

// ValidPhone reports whether phone is an optional "+" followed by 6 to 15 digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
