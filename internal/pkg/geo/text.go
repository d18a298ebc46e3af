package geo

import (
	"fmt"
	"regexp"
	"strings"
)

var wikidataPattern = regexp.MustCompile(`(?i)\bQ[1-9]\d*\b`)

// NormalizeWikidataID extracts and uppercases the first Q-id found in raw,
// or returns "", false if none is present.
func NormalizeWikidataID(raw string) (string, bool) {
	match := wikidataPattern.FindString(raw)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// SanitizeText trims raw, collapses internal whitespace, and truncates to
// maxLen runes. Returns "", false for an empty result.
func SanitizeText(raw string, maxLen int) (string, bool) {
	trimmed := whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
	if trimmed == "" {
		return "", false
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes), true
}

// NameCoordDedupeKey builds the (lowercase, whitespace-collapsed name;
// 6-decimal-rounded coordinate) key used to dedupe offices both during
// normalization and on read.
func NameCoordDedupeKey(name string, lat, lon float64) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return fmt.Sprintf("%s|%.6f|%.6f", normalized, lat, lon)
}
