package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/domain/entity"
	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/repository"
	"blog-summary/internal/service/auth"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer creates access tokens.
type TokenIssuer interface {
	Issue(u *entity.User) (token string, expiresAt time.Time, err error)
}

// RegisterInput represents the input parameters for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// PaginatedResult is a page of users with pagination metadata.
type PaginatedResult struct {
	Data       []*entity.User
	Pagination pagination.Metadata
}

// Service provides user management use cases.
type Service struct {
	Repo   repository.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates in, stores the account with a hashed password and
// issues a token. Returns ErrEmailTaken when the email is registered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	if err := entity.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := entity.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.session(u)
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	return s.session(u)
}

func (s *Service) session(u *entity.User) (*Session, error) {
	token, exp, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	u.PasswordHash = ""
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// Get retrieves a single user by ID.
// Returns ErrInvalidUserID if the ID is not positive.
// Returns ErrUserNotFound if the user does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns a page of users, newest first.
func (s *Service) List(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	offset := params.Offset()

	var (
		total int64
		users []*entity.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := s.Repo.List(gctx, offset, params.Limit)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		users = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.UpdateUsersTotal(total)

	return &PaginatedResult{
		Data: users,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}
