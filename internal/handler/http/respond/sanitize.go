package respond

import (
	"regexp"
)

var (
	// Order matters: the Anthropic pattern is more specific than the OpenAI one.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// Does not match already masked keys.
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)

	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.]+`)
)

// SanitizeError returns the error message with API keys, DSN passwords and
// bearer tokens masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	return msg
}
