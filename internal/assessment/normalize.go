package assessment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters (NFD) and removes the
// combining diacritical marks, so "é" collapses to "e".
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize canonicalizes free text for comparison: lower-cased, accents
// stripped, and every character outside [a-z0-9] removed. Equality of two
// normalized strings is the sole criterion used by the fill-in-the-blank
// and free-response validators, which makes matching accent-, case-,
// spacing- and punctuation-insensitive.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
