package auth

import (
	"errors"
	"net/http"
	"time"

	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	userUC "blog-summary/internal/usecase/user"
)

// CookieConfig controls the token cookie written on login.
type CookieConfig struct {
	Secure bool
}

func (c CookieConfig) set(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoginHandler exchanges credentials for a token.
type LoginHandler struct {
	Svc     *userUC.Service
	Cookies CookieConfig
}

func (h LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	RecordAuthDuration("login", time.Since(start).Seconds())
	RecordAuthRequest("login", result(err))
	if err != nil {
		if errors.Is(err, userUC.ErrInvalidCredentials) {
			logging.FromContext(r.Context()).Warn("login failed")
			respond.SafeError(w, http.StatusUnauthorized, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	h.Cookies.set(w, sess.Token, sess.ExpiresAt)
	respond.JSON(w, http.StatusOK, newSessionResponse(sess))
}

// LogoutHandler clears the token cookie. Tokens are stateless, so a bearer
// token stays valid until it expires.
type LogoutHandler struct {
	Cookies CookieConfig
}

func (h LogoutHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.Cookies.clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler returns the caller's own profile.
type MeHandler struct {
	Svc *userUC.Service
}

func (h MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w, errNoToken)
		return
	}
	u, err := h.Svc.Get(r.Context(), id.UserID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, userUC.ErrUserNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewUserDTO(u))
}
