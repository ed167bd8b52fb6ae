package repository

import (
	"context"

	"blog-summary/internal/domain/entity"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts user and sets its ID. Returns entity.ErrConflict when
	// the email is already registered.
	Create(ctx context.Context, user *entity.User) error
	// Get returns the user with id, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByEmail returns the user with email including the password hash,
	// or (nil, nil) if it does not exist.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns users newest first without password hashes.
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}
