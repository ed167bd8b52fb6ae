package extractive

import (
	"strings"

	"blog-summary/internal/utils/text"
)

// DefaultSentenceCount is used when a caller passes a non-positive count.
const DefaultSentenceCount = 3

// Summarizer runs the local extractive pipeline.
type Summarizer struct {
	segmenter Segmenter
	hardMax   int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithHardMax overrides DefaultHardMax. Values that cannot hold an ellipsis
// are ignored.
func WithHardMax(n int) Option {
	return func(s *Summarizer) {
		if n > len(text.Ellipsis) {
			s.hardMax = n
		}
	}
}

// New creates a Summarizer. A nil segmenter selects UnicodeSegmenter.
func New(seg Segmenter, opts ...Option) *Summarizer {
	if seg == nil {
		seg = UnicodeSegmenter{}
	}
	s := &Summarizer{segmenter: seg, hardMax: DefaultHardMax}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HardMax returns the configured length cap in runes.
func (s *Summarizer) HardMax() int { return s.hardMax }

// Segmenter returns the configured segmentation strategy.
func (s *Summarizer) Segmenter() Segmenter { return s.segmenter }

// Summarize returns an extractive summary of at most sentenceCount sentences
// and at most HardMax runes. Empty or whitespace-only content yields "".
func (s *Summarizer) Summarize(content string, sentenceCount int) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if sentenceCount <= 0 {
		sentenceCount = DefaultSentenceCount
	}

	sentences := s.segmenter.Segment(trimmed)
	if len(sentences) == 0 {
		return Excerpt(trimmed)
	}

	// Too few sentences to rank: the joined text is hard-cut, never
	// shortened to an earlier sentence boundary.
	if len(sentences) <= sentenceCount {
		parts := make([]string, len(sentences))
		for i, sent := range sentences {
			parts[i] = sent.Text
		}
		return text.TruncateWithEllipsis(strings.Join(parts, " "), s.hardMax)
	}

	scored := ScoreAll(sentences, Analyze(trimmed))
	summary := Assemble(Select(scored, sentenceCount), sentenceCount, s.hardMax)
	if strings.TrimSpace(summary) == "" {
		return Excerpt(trimmed)
	}
	return summary
}

var defaultSummarizer = New(UnicodeSegmenter{})

// Summarize runs the pipeline with the Unicode segmenter and DefaultHardMax.
func Summarize(content string, sentenceCount int) string {
	return defaultSummarizer.Summarize(content, sentenceCount)
}
