package services

import (
	"regexp"
	"strings"
)

// nonAlphanumericRun matches every maximal run of characters outside [a-z0-9].
var nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: the text is lowercased, each run of
// non-alphanumeric characters becomes one hyphen, and leading or trailing
// hyphens are dropped. Non-ASCII letters count as separators.
func Slugify(title string) string {
	slug := nonAlphanumericRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
