// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied identity fields before
// storage or lookup.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookups and the unique
// index both operate on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Branch lowercases and trims a branch name so it matches the
// AllowedBranches list and the room key.
func Branch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
