package meta

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// specialSubstitutions run before transliteration. The songbook sources use
// Æ/æ for a mis-encoded apostrophe, so they must not become "AE".
var specialSubstitutions = strings.NewReplacer(
	"Æ", "'",
	"æ", "'",
)

var newlineReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// Transliterate folds arbitrary text to its closest ASCII form.
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	s = specialSubstitutions.Replace(s)
	s = norm.NFKC.String(s)
	return unidecode.Unidecode(s)
}

// Prepare transliterates, joins lines, trims and upper-cases text but keeps
// digits and punctuation. The resolver uses it to recognise song numbers.
func Prepare(s string) string {
	s = Transliterate(s)
	s = newlineReplacer.Replace(s)
	s = strings.TrimSpace(s)
	return strings.ToUpper(s)
}

// Normalize produces the comparison key for titles, lyrics and queries.
//
// Everything except A-Z and space is dropped after Prepare. Interior runs of
// spaces left behind by removed characters are kept as they are, so
// "IT IS WELL - WITH MY SOUL" keys to "IT IS WELL  WITH MY SOUL".
func Normalize(s string) string {
	s = Prepare(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(alphaOnly(s))
}

// CollapseSpaces reduces every run of whitespace to a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func alphaOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || c == ' ' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
