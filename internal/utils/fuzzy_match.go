package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FuzzyMatchKey finds the entry of keys matching search.
// An exact (case-insensitive, trimmed) match wins; otherwise the first key, in slice order,
// that contains search or is contained by it. Returns -1 when nothing matches.
func FuzzyMatchKey(search string, keys []string) int {
	searchLower := strings.ToLower(strings.TrimSpace(search))
	if searchLower == "" {
		return -1
	}

	for i, key := range keys {
		if searchLower == key {
			return i
		}
	}

	for i, key := range keys {
		if strings.Contains(searchLower, key) || strings.Contains(key, searchLower) {
			return i
		}
	}

	return -1
}

// NormalizeFeature turns a catalog keyword into its display form:
// hyphens become spaces and every word is title-cased ("in-law suite" -> "In Law Suite")
func NormalizeFeature(feature string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(feature), "-", " "))
}
