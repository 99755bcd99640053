package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Slug Generation
// =============================================================================

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Slugify converts free text to a URL-safe slug.
//
// The transformation rules are:
//   - The text is decomposed (NFD) and combining marks are dropped, so
//     accented letters fold to their ASCII base ("Açaí" -> "acai")
//   - Letters are lowercased and surrounding whitespace is trimmed
//   - Every run of characters outside a-z and 0-9 becomes a single hyphen
//   - Leading and trailing hyphens are removed
//
// This is a pure, total function: empty input yields "", and applying it to
// its own output returns the output unchanged.
//
// Example:
//
//	Slugify("Maria Açaí")       // returns "maria-acai"
//	Slugify("  Pizza Joe!! ")   // returns "pizza-joe"
//	Slugify("---A---")          // returns "a"
func Slugify(text string) string {
	if text == "" {
		return ""
	}

	// Chains hold state, so one is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	folded = strings.TrimSpace(strings.ToLower(folded))

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// IsSlug reports whether s is a non-empty slug in normalized form.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
