package auth

import (
	"errors"
	"net/http"
	"strings"

	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/observability/logging"
	authsvc "blog-summary/internal/service/auth"
)

// CookieName is the cookie carrying the token for browser clients.
const CookieName = "token"

var (
	errNoToken        = errors.New("authentication required")
	errMalformedToken = errors.New("authorization header must use the Bearer scheme")
)

// TokenVerifier validates an access token.
type TokenVerifier interface {
	Verify(token string) (authsvc.Identity, error)
}

// Authenticator guards handlers behind a valid access token.
type Authenticator struct {
	Verifier TokenVerifier
}

// NewAuthenticator returns an Authenticator backed by v.
func NewAuthenticator(v TokenVerifier) *Authenticator {
	return &Authenticator{Verifier: v}
}

// Require rejects requests without a valid token with 401 and stores the
// caller's identity in the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.identify(r)
		RecordAuthRequest("token", result(err))
		if err != nil {
			logging.FromContext(r.Context()).Debug("request not authenticated",
				"path", r.URL.Path,
				"error", err.Error())
			unauthorized(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin is Require plus a 403 for callers that are not admins.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		if !id.User().IsAdmin() {
			RecordForbiddenAttempt(string(id.Role), r.Method)
			logging.FromContext(r.Context()).Warn("admin route refused",
				"user_id", id.UserID,
				"role", string(id.Role),
				"method", r.Method,
				"path", r.URL.Path)
			respond.JSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Authenticator) identify(r *http.Request) (authsvc.Identity, error) {
	token, err := tokenFromRequest(r)
	if err != nil {
		return authsvc.Identity{}, err
	}
	return a.Verifier.Verify(token)
}

// tokenFromRequest reads "Authorization: Bearer <token>", falling back to
// the token cookie when the header is absent.
func tokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errMalformedToken
		}
		return token, nil
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errNoToken
}

func unauthorized(w http.ResponseWriter, err error) {
	msg := "invalid or expired token"
	switch {
	case errors.Is(err, errNoToken):
		msg = errNoToken.Error()
	case errors.Is(err, errMalformedToken):
		msg = errMalformedToken.Error()
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="blog-summary"`)
	respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
}
