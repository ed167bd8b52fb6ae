package summary

// Source records which tier produced a summary.
type Source string

const (
	// SourceExternal marks a summary written by the external provider.
	SourceExternal Source = "external"
	// SourceLocal marks a summary produced by the extractive pipeline.
	SourceLocal Source = "local"
	// SourceAuthor marks a summary supplied by the post author.
	SourceAuthor Source = "author"
	// SourceNone marks an empty summary for empty content.
	SourceNone Source = "none"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceExternal, SourceLocal, SourceAuthor, SourceNone:
		return true
	}
	return false
}

// Reasons attached to an Unavailable outcome.
const (
	ReasonUnconfigured = "unconfigured"
	ReasonTimeout      = "timeout"
	ReasonCircuitOpen  = "circuit_open"
	ReasonCanceled     = "canceled"
	ReasonEmpty        = "empty_response"
	ReasonError        = "error"
)

// Outcome is the tagged result of one summarization stage: either
// Delivered with text, or Unavailable with a reason.
type Outcome struct {
	text      string
	reason    string
	delivered bool
}

// Delivered wraps a usable summary.
func Delivered(text string) Outcome {
	return Outcome{text: text, delivered: true}
}

// Unavailable records why a stage produced nothing.
func Unavailable(reason string) Outcome {
	return Outcome{reason: reason}
}

// IsDelivered reports whether the stage produced text.
func (o Outcome) IsDelivered() bool { return o.delivered }

// Text returns the delivered summary, or "" when unavailable.
func (o Outcome) Text() string { return o.text }

// Reason returns the failure reason, or "" when delivered.
func (o Outcome) Reason() string { return o.reason }

// Result is what GenerateSummary returns to callers.
type Result struct {
	Text   string
	Source Source
}
