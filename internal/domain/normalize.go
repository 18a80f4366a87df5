package domain

import "strings"

// NormalizeEmail prepares an email address for use as a grouping key:
// surrounding whitespace is stripped and the address lowercased.
// "A@x.com" and "a@x.com " identify the same contact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
