package post

import (
	"net/http"
	"time"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	postUC "blog-summary/internal/usecase/post"
)

type ListHandler struct {
	Svc           *postUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP returns a page of posts, newest first.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.FromContext(ctx)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", "error", err.Error())
		pagination.RecordError("posts", "validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(ctx, params)
	if err != nil {
		logger.Error("failed to list posts",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit)
		pagination.RecordError("posts", "database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toDTO(item.Post, item.Author))
	}

	pagination.RecordRequest("posts", http.StatusOK, params.Page)
	logger.Debug("paginated posts",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", time.Since(start).Milliseconds())

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
