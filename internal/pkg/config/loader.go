// Package config loads long-running component settings from the
// environment with a fail-open policy: an invalid value is replaced by its
// default and reported as a warning instead of stopping the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads envKey, parses it and validates it. An unset variable yields
// def without a warning; a value that fails to parse or validate yields def
// with FallbackApplied set.
func Load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string setting.
func LoadString(envKey, def string, validate func(string) error) Result[string] {
	return Load(envKey, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt loads a base-10 integer setting.
func LoadInt(envKey string, def int, validate func(int) error) Result[int] {
	return Load(envKey, def, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return n, nil
	}, validate)
}

// LoadDuration loads a time.ParseDuration setting.
func LoadDuration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, def, time.ParseDuration, validate)
}

// LoadBool loads a strconv.ParseBool setting.
func LoadBool(envKey string, def bool) Result[bool] {
	return Load(envKey, def, strconv.ParseBool, nil)
}
