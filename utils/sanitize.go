package utils

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	quoteCleaner = strings.NewReplacer("'", "", `"`, "", "<", "", ">", "")
)

// Sanitize strips HTML tag-like substrings and quote characters from
// free-text input and trims surrounding whitespace. It never fails and is
// idempotent, so it is safe to apply both before validation and before
// persistence.
func Sanitize(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = quoteCleaner.Replace(text)
	return strings.TrimSpace(text)
}
