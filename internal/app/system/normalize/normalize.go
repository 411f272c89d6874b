// internal/app/system/normalize/normalize.go
//
// Package normalize provides canonical forms for user-supplied identity
// fields. Stores apply these before persisting or matching so that
// lookups are insensitive to case and stray whitespace.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses internal runs of whitespace
// to a single space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
