package post

import (
	"net/http"

	"blog-summary/internal/handler/http/pathutil"
	"blog-summary/internal/handler/http/respond"
	postUC "blog-summary/internal/usecase/post"
)

type GetHandler struct{ Svc *postUC.Service }

// ServeHTTP returns a single post with its author.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/posts/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(p.Post, p.Author))
}
