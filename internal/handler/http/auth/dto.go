package auth

import (
	"time"

	"blog-summary/internal/domain/entity"
)

// UserDTO is the full account profile returned to its owner and to admins.
type UserDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUserDTO is what other users may see of an account.
type PublicUserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewUserDTO converts u. The password hash never leaves the service.
func NewUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// NewPublicUserDTO converts u to its public view.
func NewPublicUserDTO(u *entity.User) PublicUserDTO {
	return PublicUserDTO{ID: u.ID, Username: u.Username}
}
