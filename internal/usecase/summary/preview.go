package summary

import (
	"context"
	"fmt"
	"strings"

	"blog-summary/internal/extractive"
)

// Mode selects how Preview summarizes.
type Mode string

const (
	// ModeAuto tries the external provider and falls back to the local pipeline.
	ModeAuto Mode = "auto"
	// ModeLocal runs only the extractive pipeline.
	ModeLocal Mode = "local"
	// ModeLead returns the lead-paragraph excerpt.
	ModeLead Mode = "lead"
)

// ParseMode validates a mode string. Empty selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeLocal, ModeLead:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Preview summarizes content without persisting anything.
func (s *Service) Preview(ctx context.Context, content string, sentenceCount int, mode Mode) (Result, error) {
	switch mode {
	case ModeAuto, "":
		return s.GenerateSummary(ctx, content, sentenceCount)
	case ModeLocal:
		return s.Local(content, sentenceCount), nil
	case ModeLead:
		lead := extractive.FirstParagraph(content)
		if lead == "" {
			return Result{Source: SourceNone}, nil
		}
		return Result{Text: lead, Source: SourceLocal}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}
