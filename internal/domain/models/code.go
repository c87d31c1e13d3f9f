package models

import (
	"strings"
	"unicode"
)

// GenerateBreedCode derives the short breed code from its name: the initials of
// the first two words, or the first two letters of a single word, upper-cased
// and padded with X.
func GenerateBreedCode(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "XX"
	}

	var code []rune
	if len(words) > 1 {
		code = append(code, []rune(words[0])[0], []rune(words[1])[0])
	} else {
		runes := []rune(words[0])
		if len(runes) > 2 {
			runes = runes[:2]
		}
		code = append(code, runes...)
	}

	for len(code) < 2 {
		code = append(code, 'X')
	}

	for i, r := range code {
		code[i] = unicode.ToUpper(r)
	}
	return string(code)
}
