// Package normalize standardizes user-supplied values before they are
// persisted. Emails are lowercased, names are trimmed, and free-text
// fields (deposit/withdrawal notes) are stripped of any HTML so stored
// documents never carry markup.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace from a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Text strips all HTML from a free-text field and trims the result.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
