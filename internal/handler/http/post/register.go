package post

import (
	"errors"
	"net/http"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/domain/entity"
	"blog-summary/internal/handler/http/auth"
	postUC "blog-summary/internal/usecase/post"
)

// Register registers the /posts routes with mux. Reads are public; writes
// require a token, and deletes require an admin.
func Register(mux *http.ServeMux, svc *postUC.Service, authn *auth.Authenticator, paginationCfg pagination.Config) {
	mux.Handle("GET    /posts", ListHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET    /posts/", GetHandler{svc})

	mux.Handle("POST   /posts", authn.Require(CreateHandler{svc}))
	mux.Handle("PUT    /posts/", authn.Require(UpdateHandler{svc}))
	mux.Handle("DELETE /posts/", authn.RequireAdmin(DeleteHandler{svc}))
}

// statusFor maps post use case errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, postUC.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, postUC.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, postUC.ErrInvalidPostID),
		errors.Is(err, entity.ErrValidationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
