package user

import (
	"net/http"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	userUC "blog-summary/internal/usecase/user"
)

type ListHandler struct {
	Svc           *userUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP returns a page of full user profiles. Admin only.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("users", "validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(r.Context(), params)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list users", "error", err.Error())
		pagination.RecordError("users", "database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]auth.UserDTO, 0, len(result.Data))
	for _, u := range result.Data {
		dtos = append(dtos, auth.NewUserDTO(u))
	}
	pagination.RecordRequest("users", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
