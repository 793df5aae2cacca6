package domain

import "unicode"

// nextLine (U+0085) is a Unicode space but an ordinary character to editors
const nextLine = '\u0085'

// CountVisible returns the number of runes in text that are not whitespace.
// Formatting-only edits (indentation, blank lines) therefore never count as work.
func CountVisible(text string) int {
	n := 0
	for _, r := range text {
		if isBlank(r) {
			continue
		}
		n++
	}
	return n
}

func isBlank(r rune) bool {
	if r == nextLine {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
