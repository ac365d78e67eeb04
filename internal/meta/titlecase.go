package meta

import (
	"strings"
	"unicode"
)

// Words that stay lowercase unless they start the title
var lowercaseWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "nor": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true, "by": true,
}

// DisplayTitle turns an all-caps book title ("AMAZING GRACE") into a caption
// ("Amazing Grace"). Mixed-case words keep their inner capitals.
func DisplayTitle(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	result := make([]string, len(words))
	for i, word := range words {
		lower := strings.ToLower(word)
		if i > 0 && lowercaseWords[lower] {
			result[i] = lower
			continue
		}
		result[i] = capitalizeWord(word)
	}
	return strings.Join(result, " ")
}

// capitalizeWord upper-cases the first letter; single-case words are
// lowered first, mixed-case words ("McCartney") keep their shape.
func capitalizeWord(word string) string {
	runes := []rune(word)

	hasLower, hasUpper := false, false
	for _, r := range runes {
		if unicode.IsLower(r) {
			hasLower = true
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}

	if hasLower != hasUpper {
		for i := range runes {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
