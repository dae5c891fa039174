package domain

import (
	"strings"
)

// TrimOrNil trims whitespace and returns nil when nothing is left.
// Optional tone fields are stored as absent, never as "".
func TrimOrNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
