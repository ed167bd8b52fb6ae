package user_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/domain/entity"
	"blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/user"
	"blog-summary/internal/infra/adapter/persistence/sqlite"
	"blog-summary/internal/infra/db"
	authsvc "blog-summary/internal/service/auth"
	userUC "blog-summary/internal/usecase/user"
)

type fixture struct {
	mux    *http.ServeMux
	tokens *authsvc.TokenService
	users  map[string]*entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.Config{Driver: db.DriverSQLite, DSN: "file::memory:?_pragma=foreign_keys(1)"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(ctx, conn, db.DriverSQLite))

	repo := sqlite.NewUserRepo(conn)
	f := &fixture{
		mux:    http.NewServeMux(),
		tokens: authsvc.NewTokenService("user-handler-test-secret-0123456789", time.Hour),
		users:  map[string]*entity.User{},
	}
	for i, name := range []string{"admin", "alice", "bob"} {
		role := entity.RoleUser
		if name == "admin" {
			role = entity.RoleAdmin
		}
		u := &entity.User{
			Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role,
			CreatedAt: time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.Create(ctx, u))
		f.users[name] = u
	}

	svc := &userUC.Service{Repo: repo, Hasher: authsvc.NewPasswordHasher(4), Tokens: f.tokens}
	user.Register(f.mux, svc, auth.NewAuthenticator(f.tokens), pagination.DefaultConfig())
	return f
}

func (f *fixture) get(t *testing.T, as, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if as != "" {
		tok, _, err := f.tokens.Issue(f.users[as])
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func TestList(t *testing.T) {
	f := newFixture(t)

	t.Run("admin", func(t *testing.T) {
		rr := f.get(t, "admin", "/users?limit=2")
		require.Equal(t, http.StatusOK, rr.Code)

		var page pagination.Response[auth.UserDTO]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		assert.Equal(t, int64(3), page.Pagination.Total)
		assert.Equal(t, 2, page.Pagination.TotalPages)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "bob", page.Data[0].Username)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("non-admin", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, f.get(t, "alice", "/users").Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.get(t, "", "/users").Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, f.get(t, "admin", "/users?limit=1000").Code)
	})
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	alicePath := fmt.Sprintf("/users/%d", f.users["alice"].ID)

	tests := []struct {
		name      string
		as        string
		wantEmail bool
	}{
		{"self", "alice", true},
		{"admin", "admin", true},
		{"other user", "bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.get(t, tt.as, alicePath)
			require.Equal(t, http.StatusOK, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "alice", body["username"])
			assert.EqualValues(t, f.users["alice"].ID, body["id"])
			_, hasEmail := body["email"]
			assert.Equal(t, tt.wantEmail, hasEmail)
			_, hasRole := body["role"]
			assert.Equal(t, tt.wantEmail, hasRole)
		})
	}
}

func TestGet_Errors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "", "/users/1").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "alice", "/users/999").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "alice", "/users/x").Code)
}
