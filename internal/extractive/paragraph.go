package extractive

import (
	"regexp"
	"strings"

	"blog-summary/internal/utils/text"
)

const (
	leadLimit    = 250
	leadMinimum  = 150
	leadFallback = leadLimit - len(text.Ellipsis)
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	headerPrefix   = regexp.MustCompile(`^#+\s*`)
)

// FirstParagraph returns the lead paragraph of content with leading markdown
// header markers removed and line breaks folded into spaces. Paragraphs
// longer than 250 runes are cut after the last terminal punctuation when it
// lies past rune 150, else at 247 runes plus an ellipsis.
func FirstParagraph(content string) string {
	if content == "" {
		return ""
	}

	first := strings.TrimSpace(paragraphBreak.Split(content, 2)[0])
	first = headerPrefix.ReplaceAllString(first, "")
	first = strings.TrimSpace(strings.ReplaceAll(first, "\n", " "))

	if text.CountRunes(first) <= leadLimit {
		return first
	}

	if last := text.LastIndexAny(first, terminalPunctuation, leadLimit); last > leadMinimum {
		return text.Prefix(first, last+1)
	}
	return text.Prefix(first, leadFallback) + text.Ellipsis
}
