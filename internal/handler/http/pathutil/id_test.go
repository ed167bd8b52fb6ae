package pathutil

import (
	"errors"
	"testing"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		prefix    string
		wantID    int64
		wantError error
	}{
		{
			name:      "valid post ID",
			path:      "/posts/123",
			prefix:    "/posts/",
			wantID:    123,
			wantError: nil,
		},
		{
			name:      "valid user ID",
			path:      "/users/456",
			prefix:    "/users/",
			wantID:    456,
			wantError: nil,
		},
		{
			name:      "invalid ID - not a number",
			path:      "/posts/abc",
			prefix:    "/posts/",
			wantID:    0,
			wantError: ErrInvalidID,
		},
		{
			name:      "invalid ID - zero",
			path:      "/posts/0",
			prefix:    "/posts/",
			wantID:    0,
			wantError: ErrInvalidID,
		},
		{
			name:      "invalid ID - negative",
			path:      "/posts/-1",
			prefix:    "/posts/",
			wantID:    0,
			wantError: ErrInvalidID,
		},
		{
			name:      "invalid ID - empty",
			path:      "/posts/",
			prefix:    "/posts/",
			wantID:    0,
			wantError: ErrInvalidID,
		},
		{
			name:      "invalid ID - with extra path",
			path:      "/posts/123/comments",
			prefix:    "/posts/",
			wantID:    0,
			wantError: ErrInvalidID,
		},
		{
			name:      "large valid ID",
			path:      "/posts/9223372036854775807",
			prefix:    "/posts/",
			wantID:    9223372036854775807,
			wantError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotErr := ExtractID(tt.path, tt.prefix)

			if gotID != tt.wantID {
				t.Errorf("ExtractID() id = %v, want %v", gotID, tt.wantID)
			}

			if !errors.Is(gotErr, tt.wantError) {
				t.Errorf("ExtractID() error = %v, want %v", gotErr, tt.wantError)
			}
		})
	}
}
