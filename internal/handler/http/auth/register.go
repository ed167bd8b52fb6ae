package auth

import (
	"errors"
	"net/http"
	"time"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/handler/http/middleware"
	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	userUC "blog-summary/internal/usecase/user"
)

// Register registers the /auth routes with mux. Login and register are
// throttled by limiter when it is non-nil.
func Register(mux *http.ServeMux, svc *userUC.Service, authn *Authenticator, limiter *middleware.RateLimiter, cookies CookieConfig) {
	throttle := func(h http.Handler) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Middleware(h)
	}

	mux.Handle("POST   /auth/register", throttle(RegisterHandler{Svc: svc, Cookies: cookies}))
	mux.Handle("POST   /auth/login", throttle(LoginHandler{Svc: svc, Cookies: cookies}))
	mux.Handle("POST   /auth/logout", LogoutHandler{Cookies: cookies})
	mux.Handle("GET    /auth/me", authn.Require(MeHandler{Svc: svc}))
}

// RegisterHandler creates an account and signs the new user in.
type RegisterHandler struct {
	Svc     *userUC.Service
	Cookies CookieConfig
}

func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	sess, err := h.Svc.Register(r.Context(), userUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	RecordAuthDuration("register", time.Since(start).Seconds())
	RecordAuthRequest("register", result(err))
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, userUC.ErrEmailTaken):
			code = http.StatusConflict
		case errors.Is(err, entity.ErrValidationFailed):
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	logging.FromContext(r.Context()).Info("user registered",
		"user_id", sess.User.ID,
		"role", string(sess.User.Role))
	h.Cookies.set(w, sess.Token, sess.ExpiresAt)
	respond.JSON(w, http.StatusCreated, newSessionResponse(sess))
}

func newSessionResponse(sess *userUC.Session) SessionResponse {
	return SessionResponse{
		User:      NewUserDTO(sess.User),
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	}
}
