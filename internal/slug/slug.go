// Package slug converts human-readable text into URL-safe identifiers.
//
// A single implementation is shared by page slugs, tag slugs, heading id
// generation and project slugs so that the same title always resolves to the
// same address. Make is pure and idempotent: feeding a slug back in returns
// it unchanged.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is returned for input that normalizes to nothing, so that a
// slug is never empty.
const Placeholder = "untitled"

// stripMarks decomposes accented characters and removes the combining marks,
// turning e.g. "déjà" into "deja".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts text into a lowercase slug containing only [a-z0-9-].
// Whitespace runs become a single hyphen, repeated hyphens are collapsed,
// and leading/trailing hyphens are trimmed.
func Make(text string) string {
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}

	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			pendingHyphen = true
		default:
			// Characters outside the slug alphabet are dropped.
		}
	}

	out := b.String()
	if out == "" {
		return Placeholder
	}
	return out
}
