package entity

import "time"

// Role is a user's permission level.
type Role string

// Supported roles.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// ParseRole validates r. Empty selects RoleUser.
func ParseRole(r string) (Role, error) {
	switch Role(r) {
	case "":
		return RoleUser, nil
	case RoleAdmin, RoleEditor, RoleUser:
		return Role(r), nil
	default:
		return "", &ValidationError{Field: "role", Message: "role must be one of admin, editor, user"}
	}
}

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
