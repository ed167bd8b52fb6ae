package extractive

import "blog-summary/internal/utils/text"

const (
	// shortSentenceMaxWords is the largest token count that earns shortSentenceBoost.
	shortSentenceMaxWords = 4
	shortSentenceBoost    = 1.2
	// positionBoost applies to the first and last sentence.
	positionBoost = 1.5
)

// ScoredSentence is a sentence with its relevance score.
type ScoredSentence struct {
	Sentence
	Score     float64
	WordCount int
	// Length is measured in runes.
	Length int
}

// Score returns the relevance of s within a text of total sentences.
func Score(s Sentence, table FrequencyTable, total int) float64 {
	return scoreSentence(s, table, total).Score
}

// ScoreAll scores every sentence against the table.
func ScoreAll(sentences []Sentence, table FrequencyTable) []ScoredSentence {
	scored := make([]ScoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = scoreSentence(s, table, len(sentences))
	}
	return scored
}

func scoreSentence(s Sentence, table FrequencyTable, total int) ScoredSentence {
	tokens := Tokenize(s.Text)

	var score float64
	if len(tokens) > 0 {
		sum := 0
		for _, tok := range tokens {
			sum += table[tok]
		}
		score = float64(sum) / float64(len(tokens))
		if len(tokens) <= shortSentenceMaxWords {
			score *= shortSentenceBoost
		}
	}

	if s.Index == 0 || s.Index == total-1 {
		score *= positionBoost
	}

	return ScoredSentence{
		Sentence:  s,
		Score:     score,
		WordCount: len(tokens),
		Length:    text.CountRunes(s.Text),
	}
}
