package post

import (
	"net/http"

	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/pathutil"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	postUC "blog-summary/internal/usecase/post"
)

type DeleteHandler struct{ Svc *postUC.Service }

// ServeHTTP deletes a post. Admin only.
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ExtractID(r.URL.Path, "/posts/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Delete(r.Context(), id.User(), postID); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	logging.FromContext(r.Context()).Info("post deleted", "post_id", postID, "user_id", id.UserID)
	w.WriteHeader(http.StatusNoContent)
}
