// Package verify implements fuzzy answer matching against a title's primary
// and secondary names.
package verify

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Threshold is the fraction of the shorter name an answer must cover for
// partial matching.
const Threshold = 0.7

// Matches reports whether a free-text answer names the title.
//
// All strings are NFKC-normalized, lowercased, and trimmed first. An exact
// match against either name wins. Otherwise the answer must be at least 70%
// of the shorter name's length and contain, or be contained in, either name.
// Containment runs both directions, so "attack on titan season 1" matches
// "Attack on Titan". The rule is deliberately permissive toward abbreviated
// input.
//
// Pure function: identical arguments always yield identical results.
func Matches(answer, primaryName, secondaryName string) bool {
	answer = normalizeText(answer)
	if answer == "" {
		return false
	}

	names := make([]string, 0, 2)
	for _, name := range []string{primaryName, secondaryName} {
		if n := normalizeText(name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return false
	}

	for _, name := range names {
		if answer == name {
			return true
		}
	}

	shortest := len([]rune(names[0]))
	for _, name := range names[1:] {
		if l := len([]rune(name)); l < shortest {
			shortest = l
		}
	}
	minMatchLength := int(float64(shortest) * Threshold)

	if len([]rune(answer)) < minMatchLength {
		return false
	}
	for _, name := range names {
		if strings.Contains(name, answer) || strings.Contains(answer, name) {
			return true
		}
	}
	return false
}

// normalizeText folds compatibility forms (full-width characters, ligatures)
// before case folding so visually identical answers compare equal.
func normalizeText(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(s)))
}
