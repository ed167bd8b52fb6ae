package extractive

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rivo/uniseg"
)

// Sentence is a trimmed, non-empty unit of the source text. Index is its
// position in the segmented sequence and is the only ordering key.
type Sentence struct {
	Text  string
	Index int
}

// Segmenter splits text into sentences.
type Segmenter interface {
	Segment(text string) []Sentence
	Name() string
}

// Segmenter strategy names accepted by NewSegmenter.
const (
	SegmenterUnicode = "unicode"
	SegmenterRegex   = "regex"
)

// NewSegmenter returns the strategy registered under name. An empty name
// selects the Unicode strategy.
func NewSegmenter(name string) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SegmenterUnicode:
		return UnicodeSegmenter{}, nil
	case SegmenterRegex:
		return NewRegexSegmenter(), nil
	default:
		return nil, fmt.Errorf("unknown segmenter %q: must be %q or %q", name, SegmenterUnicode, SegmenterRegex)
	}
}

// UnicodeSegmenter splits on UAX #29 sentence boundaries.
type UnicodeSegmenter struct{}

// Name implements Segmenter.
func (UnicodeSegmenter) Name() string { return SegmenterUnicode }

// Segment implements Segmenter.
func (UnicodeSegmenter) Segment(text string) []Sentence {
	var units []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var unit string
		unit, rest, state = uniseg.FirstSentenceInString(rest, state)
		units = append(units, unit)
	}
	return indexUnits(units)
}

// boundaryPattern matches the whitespace after terminal punctuation that is
// followed by an uppercase letter.
const boundaryPattern = `(?<=[.!?])\s+(?=[A-Z])`

// RegexSegmenter splits after '.', '!' or '?' followed by whitespace and an
// uppercase letter.
type RegexSegmenter struct {
	re *regexp2.Regexp
}

// NewRegexSegmenter compiles the boundary pattern.
func NewRegexSegmenter() *RegexSegmenter {
	re := regexp2.MustCompile(boundaryPattern, regexp2.None)
	re.MatchTimeout = time.Second
	return &RegexSegmenter{re: re}
}

// Name implements Segmenter.
func (*RegexSegmenter) Name() string { return SegmenterRegex }

// Segment implements Segmenter. A match timeout keeps the remaining text as
// one unit.
func (s *RegexSegmenter) Segment(text string) []Sentence {
	runes := []rune(text)
	var units []string
	start := 0

	m, err := s.re.FindRunesMatch(runes)
	for err == nil && m != nil {
		units = append(units, string(runes[start:m.Index]))
		start = m.Index + m.Length
		m, err = s.re.FindNextMatch(m)
	}
	units = append(units, string(runes[start:]))

	return indexUnits(units)
}

// indexUnits trims each unit, drops empty ones and assigns indices.
func indexUnits(units []string) []Sentence {
	sentences := make([]Sentence, 0, len(units))
	for _, u := range units {
		trimmed := strings.TrimSpace(u)
		if trimmed == "" {
			continue
		}
		sentences = append(sentences, Sentence{Text: trimmed, Index: len(sentences)})
	}
	return sentences
}
