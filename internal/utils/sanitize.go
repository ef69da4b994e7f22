package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from user supplied free text (names, address labels) and trims it.
func SanitizeText(s string) string {
	cleaned := strictPolicy.Sanitize(s)

	// StrictPolicy escapes entities; keep plain text in storage
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
