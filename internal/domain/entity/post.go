// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Post and User, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Post is a blog post with its stored summary.
type Post struct {
	ID            int64
	AuthorID      int64
	Title         string
	Content       string
	Summary       string
	SummarySource string // external, local, author or none
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PostWithAuthor is a post joined with its author's username.
type PostWithAuthor struct {
	Post   *Post
	Author string
}

// CanBeEditedBy reports whether u may modify the post: its author or an admin.
func (p *Post) CanBeEditedBy(u *User) bool {
	if p == nil || u == nil {
		return false
	}
	return p.AuthorID == u.ID || u.IsAdmin()
}
