package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// OCR tends to split units around the slash: "kg / ha", "kg/ ha".
	unitSlashRe = regexp.MustCompile(`(?i)\bkg\s*/\s*(ha|acre)\b`)
)

// NormalizeText prepares raw OCR output for matching: NFKC fold (full-width
// digits, ligatures), junk symbol removal, whitespace collapse, and unit
// punctuation repair. Matching and substring verification both run against
// this form, so it must be deterministic.
func NormalizeText(raw string) string {
	s := norm.NFKC.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsControl(r) && r != '\n' && r != '\t':
			// drop
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(".,:;%()/+=-", r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	s = b.String()

	s = unitSlashRe.ReplaceAllString(s, "kg/$1")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
