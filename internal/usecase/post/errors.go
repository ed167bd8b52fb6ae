// Package post provides use cases for managing blog posts and their stored
// summaries: creating, updating, deleting, listing and refreshing local
// summaries once an external provider is available.
package post

import "errors"

// Sentinel errors for post use case operations.
var (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidPostID indicates that the provided post ID is not positive.
	ErrInvalidPostID = errors.New("invalid post ID")

	// ErrForbidden indicates that the acting user may not modify the post.
	ErrForbidden = errors.New("not allowed to modify this post")
)
