package summary

import (
	"strings"

	"blog-summary/internal/utils/text"
)

// DefaultPromptMaxChars bounds the content embedded in the provider prompt.
const DefaultPromptMaxChars = 5000

const promptInstruction = "Summarize the following blog post in two or three sentences. " +
	"Reply with the summary only. Do not add an introduction such as \"This article\" or \"Here is a summary\".\n\n"

// BuildPrompt returns the fixed instruction followed by content cut to
// maxChars runes.
func BuildPrompt(content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultPromptMaxChars
	}
	var b strings.Builder
	b.WriteString(promptInstruction)
	b.WriteString(text.Prefix(strings.TrimSpace(content), maxChars))
	return b.String()
}
