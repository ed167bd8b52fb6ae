// Package user provides HTTP handlers for reading user accounts.
package user

import (
	"net/http"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/handler/http/auth"
	userUC "blog-summary/internal/usecase/user"
)

// Register registers the /users routes with mux.
func Register(mux *http.ServeMux, svc *userUC.Service, authn *auth.Authenticator, paginationCfg pagination.Config) {
	mux.Handle("GET    /users", authn.RequireAdmin(ListHandler{Svc: svc, PaginationCfg: paginationCfg}))
	mux.Handle("GET    /users/", authn.Require(GetHandler{svc}))
}
