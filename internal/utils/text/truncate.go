package text

import "strings"

// Ellipsis is appended when text is hard-cut.
const Ellipsis = "..."

// Prefix returns the first n runes of s. It returns s unchanged when it is
// already short enough and "" for n <= 0.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateWithEllipsis returns s verbatim when it has at most limit runes.
// Otherwise it keeps limit-3 runes and appends Ellipsis, so the result is
// exactly limit runes long.
func TruncateWithEllipsis(s string, limit int) string {
	if CountRunes(s) <= limit {
		return s
	}
	return Prefix(s, limit-len(Ellipsis)) + Ellipsis
}

// LastIndexAny returns the rune index of the last rune of s that is in chars
// and sits at a rune index <= from. It returns -1 when there is none.
func LastIndexAny(s string, chars string, from int) int {
	last := -1
	idx := 0
	for _, r := range s {
		if idx > from {
			break
		}
		if strings.ContainsRune(chars, r) {
			last = idx
		}
		idx++
	}
	return last
}
