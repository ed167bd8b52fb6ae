// Package text provides rune-aware helpers for measuring and cutting text.
// Every length in the summarization pipeline is measured in runes so that
// multi-byte input is never split inside a character.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("héllo")     // returns 5
//	CountRunes("hello世界")  // returns 7
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
