// Package slug derives URL-safe identifiers from human titles.
package slug

import (
	"strings"
	"unicode"
)

// Make lower-cases the title, drops every rune that is not a letter,
// digit, space or hyphen, turns whitespace runs into single hyphens and
// collapses repeated hyphens. It is pure and idempotent on its own
// output; it does NOT guarantee uniqueness. An empty result means the
// title carried no usable characters and must be rejected by the caller.
func Make(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	s := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
