// Package summary provides the summary preview endpoint.
package summary

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	sumUC "blog-summary/internal/usecase/summary"
)

const (
	maxSentenceCount = 20
	maxContentRunes  = 100_000
)

// Previewer summarizes content without storing it.
type Previewer interface {
	Preview(ctx context.Context, content string, sentenceCount int, mode sumUC.Mode) (sumUC.Result, error)
}

// Register registers POST /summaries with mux.
func Register(mux *http.ServeMux, svc Previewer, authn *auth.Authenticator) {
	mux.Handle("POST   /summaries", authn.Require(PreviewHandler{svc}))
}

// Response is the preview result.
type Response struct {
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

type PreviewHandler struct{ Svc Previewer }

// ServeHTTP summarizes the posted content with the requested mode.
func (h PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content       string `json:"content"`
		SentenceCount int    `json:"sentence_count"`
		Mode          string `json:"mode"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		respond.SafeError(w, http.StatusBadRequest,
			&entity.ValidationError{Field: "content", Message: "content is required"})
		return
	}
	if utf8.RuneCountInString(req.Content) > maxContentRunes {
		respond.SafeError(w, http.StatusBadRequest,
			&entity.ValidationError{Field: "content", Message: "content is too long"})
		return
	}
	if req.SentenceCount < 0 || req.SentenceCount > maxSentenceCount {
		respond.SafeError(w, http.StatusBadRequest,
			&entity.ValidationError{Field: "sentence_count", Message: "sentence_count must be between 1 and 20"})
		return
	}
	mode, err := sumUC.ParseMode(req.Mode)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			&entity.ValidationError{Field: "mode", Message: "mode must be one of auto, local, lead"})
		return
	}

	res, err := h.Svc.Preview(r.Context(), req.Content, req.SentenceCount, mode)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = http.StatusServiceUnavailable
		}
		respond.SafeError(w, code, err)
		return
	}

	logging.FromContext(r.Context()).Debug("summary preview",
		"mode", string(mode),
		"source", string(res.Source),
		"content_length", len(req.Content))
	respond.JSON(w, http.StatusOK, Response{Summary: res.Text, Source: string(res.Source)})
}
