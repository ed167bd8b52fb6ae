package summary

import "errors"

// ErrInvalidMode is returned by Preview for an unknown mode.
var ErrInvalidMode = errors.New("invalid summary mode")
