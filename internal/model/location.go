package model

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocationInfo is the result of resolving a ZIP code or city name.
// County may be empty when no county could be determined; callers degrade
// to a state-wide search rather than failing.
type LocationInfo struct {
	City   string
	County string
	State  string // 2-letter abbreviation, uppercase
}

// CountyKey uniquely identifies a county in the identifier cache.
// Both fields are stored normalized (lowercase, suffix-stripped).
type CountyKey struct {
	County string
	State  string
}

var countySuffixRe = regexp.MustCompile(`(?i)\s+(county|parish|borough|census area)\b.*$`)

// NormalizeCounty lowercases a county name and strips the jurisdiction
// suffix ("County", "Parish", "Borough", "Census Area") plus surrounding
// whitespace. Lookups and stores always use this form.
func NormalizeCounty(name string) string {
	name = countySuffixRe.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}

// NewCountyKey builds a normalized cache key from raw county and state text.
func NewCountyKey(county, state string) CountyKey {
	return CountyKey{
		County: NormalizeCounty(county),
		State:  strings.ToLower(strings.TrimSpace(state)),
	}
}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayCounty renders the normalized county name for human-facing text
// ("los angeles" -> "Los Angeles").
func (k CountyKey) DisplayCounty() string {
	return titleCaser.String(strings.ReplaceAll(k.County, "_", " "))
}

// StateUpper returns the key's state abbreviation in uppercase.
func (k CountyKey) StateUpper() string {
	return strings.ToUpper(k.State)
}
