package sections

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Metrics returns the word count of content and its estimated reading time in
// whole minutes, rounded up. Runs of CJK characters count one word per
// character.
func Metrics(content string) (words, minutes int) {
	for _, field := range strings.Fields(content) {
		cjk := 0
		other := false
		for _, r := range field {
			if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
				cjk++
			} else if unicode.IsLetter(r) || unicode.IsDigit(r) {
				other = true
			}
		}
		words += cjk
		if other {
			words++
		}
	}
	if words == 0 {
		return 0, 0
	}
	return words, (words + WordsPerMinute - 1) / WordsPerMinute
}
