// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from user-entered text before it is
// persisted or broadcast.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes all HTML elements and attributes, leaving text only.
var strict = bluemonday.StrictPolicy()

// Text returns s with all HTML stripped and surrounding whitespace
// trimmed. Chat messages are plain text on the wire; anything that
// looks like markup is removed rather than escaped.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
