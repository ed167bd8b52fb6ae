// Package auth issues and verifies HS256 access tokens and hashes passwords
// with bcrypt. It is framework-agnostic and used by both the user use cases
// and the HTTP authentication middleware.
package auth
