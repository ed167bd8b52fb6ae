package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metrics label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/posts/\d+$`), Template: "/posts/:id"},
	{Pattern: regexp.MustCompile(`^/users/\d+$`), Template: "/users/:id"},
}

// NormalizePath replaces numeric IDs with :id so metrics and span names keep
// a bounded label set. Query strings and trailing slashes are stripped.
// Paths that match no pattern are returned unchanged.
//
//	NormalizePath("/posts/123")        // "/posts/:id"
//	NormalizePath("/users/7/")         // "/users/:id"
//	NormalizePath("/posts?page=2")     // "/posts"
//	NormalizePath("/health")           // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
