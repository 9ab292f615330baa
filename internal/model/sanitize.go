package model

import (
	"regexp"
	"strings"
)

// idSeparatorRuns matches every run of characters that may not appear in a
// sanitized identifier.
var idSeparatorRuns = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeID lowercases the input, collapses every run of non-alphanumeric
// characters into a single hyphen, and trims leading and trailing hyphens.
// The result may be empty; callers fall back to a positional placeholder.
func SanitizeID(raw string) string {
	cleaned := idSeparatorRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
	return strings.Trim(cleaned, "-")
}

// SanitizeIDOr sanitizes raw and substitutes fallback when nothing survives.
func SanitizeIDOr(raw, fallback string) string {
	if id := SanitizeID(raw); id != "" {
		return id
	}
	return fallback
}
