package extractive

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more lowercase Latin letters.
var tokenPattern = regexp.MustCompile(`\b[a-z]{2,}\b`)

// FrequencyTable maps a lower-cased token to its number of occurrences.
type FrequencyTable map[string]int

// Tokenize lower-cases text and returns its qualifying tokens in order.
// Stop words are included.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Analyze counts every non-stop-word token of the whole text.
func Analyze(text string) FrequencyTable {
	table := make(FrequencyTable)
	for _, tok := range Tokenize(text) {
		if IsStopWord(tok) {
			continue
		}
		table[tok]++
	}
	return table
}
