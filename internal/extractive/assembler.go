package extractive

import (
	"strings"

	"blog-summary/internal/utils/text"
)

const (
	// DefaultHardMax is the maximum summary length in runes.
	DefaultHardMax = 500
	// minKeptBeforeStop is the accumulated length below which the assembler
	// keeps appending even past the hard maximum.
	minKeptBeforeStop = 150
	// excerptLimit bounds the fallback excerpt of the source text.
	excerptLimit = 200

	terminalPunctuation = ".!?"
)

// Assemble joins up to sentenceCount of the selected sentences with single
// spaces and enforces hardMax. It may return "" for empty input; callers fall
// back to Excerpt in that case.
func Assemble(selected []ScoredSentence, sentenceCount, hardMax int) string {
	var b strings.Builder
	length := 0
	used := 0

	for _, s := range selected {
		if used >= sentenceCount {
			break
		}

		next := length + s.Length
		if b.Len() > 0 {
			next++
		}
		if next > hardMax && length > minKeptBeforeStop {
			break
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Text)
		length = next
		used++
	}

	return Truncate(b.String(), hardMax)
}

// Truncate bounds s to hardMax runes. It cuts after the last '.', '!' or '?'
// found before hardMax-3 when that punctuation lies past the midpoint, and
// otherwise hard-cuts to hardMax-3 runes plus an ellipsis.
func Truncate(s string, hardMax int) string {
	if text.CountRunes(s) <= hardMax {
		return s
	}

	cutoff := hardMax - len(text.Ellipsis)
	last := text.LastIndexAny(s, terminalPunctuation, cutoff)
	if float64(last) > float64(hardMax)*0.5 {
		return text.Prefix(s, last+1)
	}
	return text.Prefix(s, cutoff) + text.Ellipsis
}

// Excerpt returns trimmed source text verbatim when it fits in 200 runes and
// its first 197 runes plus an ellipsis otherwise.
func Excerpt(trimmed string) string {
	return text.TruncateWithEllipsis(trimmed, excerptLimit)
}
