package post

import (
	"net/http"

	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/pathutil"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	postUC "blog-summary/internal/usecase/post"
)

type UpdateHandler struct{ Svc *postUC.Service }

// ServeHTTP applies a partial update. Only the author or an admin may edit.
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ExtractID(r.URL.Path, "/posts/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Summary *string `json:"summary"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Svc.Update(r.Context(), id.User(), postUC.UpdateInput{
		ID:      postID,
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
	})
	if err != nil {
		if statusFor(err) == http.StatusForbidden {
			auth.RecordForbiddenAttempt(string(id.Role), r.Method)
		}
		respond.SafeError(w, statusFor(err), err)
		return
	}

	logging.FromContext(r.Context()).Info("post updated",
		"post_id", p.Post.ID,
		"user_id", id.UserID,
		"summary_source", p.Post.SummarySource)
	respond.JSON(w, http.StatusOK, toDTO(p.Post, p.Author))
}
