package extractive

import (
	"cmp"
	"slices"
)

// selectionBuffer is the number of extra candidates handed to the assembler
// so it can drop sentences that overflow the length budget.
const selectionBuffer = 2

// Select keeps the sentenceCount+2 highest scoring sentences and returns them
// in source order. Equal scores keep their order of appearance. The input is
// not modified.
func Select(scored []ScoredSentence, sentenceCount int) []ScoredSentence {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b ScoredSentence) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit := sentenceCount + selectionBuffer; len(ranked) > limit {
		ranked = ranked[:limit]
	}

	slices.SortFunc(ranked, func(a, b ScoredSentence) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return ranked
}
