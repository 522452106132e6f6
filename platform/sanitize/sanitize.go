// Package sanitize provides text sanitization utilities for user-provided input.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// Tags are stripped again after entity decoding to catch encoded markup.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Field sanitizes a single-line form field: markup is removed and runs of
// whitespace collapse to one space.
func Field(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}
