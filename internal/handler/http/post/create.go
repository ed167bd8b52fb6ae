package post

import (
	"net/http"

	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	postUC "blog-summary/internal/usecase/post"
)

type CreateHandler struct{ Svc *postUC.Service }

// ServeHTTP creates a post owned by the caller. A missing summary is
// generated from the content.
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Summary string `json:"summary"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Svc.Create(r.Context(), postUC.CreateInput{
		AuthorID: id.UserID,
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	logging.FromContext(r.Context()).Info("post created",
		"post_id", p.ID,
		"author_id", p.AuthorID,
		"summary_source", p.SummarySource)

	// the author's username is not part of the insert
	full, err := h.Svc.Get(r.Context(), p.ID)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(full.Post, full.Author))
}
