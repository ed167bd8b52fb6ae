package entity

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
	maxEmailLength    = 254
	minTitleLength    = 5
	maxTitleLength    = 200
	minContentLength  = 20
	maxContentLength  = 100_000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateUsername checks the username length (3-30 characters).
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n < minUsernameLength || n > maxUsernameLength {
		return &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength),
		}
	}
	return nil
}

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "please provide a valid email address"}
	}
	return nil
}

// ValidatePassword checks the password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		}
	}
	if len(password) > maxPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must not exceed %d bytes", maxPasswordLength),
		}
	}
	return nil
}

// ValidateTitle checks the post title length.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < minTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at least %d characters", minTitleLength),
		}
	}
	if n > maxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must not exceed %d characters", maxTitleLength),
		}
	}
	return nil
}

// ValidateContent checks the post body length. Bodies shorter than 20
// characters are rejected because they cannot be summarized meaningfully.
func ValidateContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < minContentLength {
		return &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at least %d characters for summarization", minContentLength),
		}
	}
	if n > maxContentLength {
		return &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must not exceed %d characters", maxContentLength),
		}
	}
	return nil
}
