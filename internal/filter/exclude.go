package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Match returns the first non-blank word found in text, compared under
// Unicode case folding, or "" when none is.
func Match(text string, words []string) string {
	if len(words) == 0 {
		return ""
	}
	// a Caser keeps state, so each call gets its own
	fold := cases.Fold()
	folded := fold.String(text)
	for _, word := range words {
		w := strings.TrimSpace(word)
		if w == "" {
			continue
		}
		if strings.Contains(folded, fold.String(w)) {
			return word
		}
	}
	return ""
}
