package user

import (
	"errors"
	"net/http"

	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/pathutil"
	"blog-summary/internal/handler/http/respond"
	userUC "blog-summary/internal/usecase/user"
)

type GetHandler struct{ Svc *userUC.Service }

// ServeHTTP returns the full profile to its owner and to admins, and only
// the id and username to everyone else.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := pathutil.ExtractID(r.URL.Path, "/users/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, userUC.ErrUserNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	caller, _ := auth.IdentityFromContext(r.Context())
	if caller.UserID == u.ID || caller.User().IsAdmin() {
		respond.JSON(w, http.StatusOK, auth.NewUserDTO(u))
		return
	}
	respond.JSON(w, http.StatusOK, auth.NewPublicUserDTO(u))
}
