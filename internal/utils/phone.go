package utils

import "strings"

// NormalizePhone strips everything but digits from a phone string. The
// normalized form doubles as the customer id.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether a normalized phone has a plausible length.
func ValidPhone(normalized string) bool {
	return len(normalized) >= 10 && len(normalized) <= 15
}
