// Package slug normalizes arbitrary titles and filenames into URL-safe
// identifiers.
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Normalize turns text into a URL-safe slug. It lowercases and trims the
// input, collapses whitespace runs into single hyphens, replaces "&" with the
// word "and", strips every character outside [word-chars, hyphen], and
// collapses consecutive hyphens. The function is pure, total, and idempotent;
// an empty input yields an empty slug.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return s
}

// IsValid reports whether value is already in normalized form.
func IsValid(value string) bool {
	return value == Normalize(value)
}
