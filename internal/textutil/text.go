// Package textutil cleans up text scraped from job pages.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripAccents lowercases s and removes combining marks, so "Híbrido"
// becomes "hibrido".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(result)
}
