package model

import (
	"fmt"

	"github.com/inferlab/themata/pkg/themata/internalerr"
)

// Argument accessors for constructors. Records round-trip through JSON, so
// numbers stored as int come back as float64; these accept either form.

// IntArg reads a required integer argument.
func IntArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q: %w", key, internalerr.ErrInvalidInput)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("argument %q has type %T, want number: %w", key, v, internalerr.ErrInvalidInput)
}

// FloatArg reads a required float argument.
func FloatArg(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q: %w", key, internalerr.ErrInvalidInput)
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("argument %q has type %T, want number: %w", key, v, internalerr.ErrInvalidInput)
}

// StringArg reads a required string argument.
func StringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q: %w", key, internalerr.ErrInvalidInput)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q has type %T, want string: %w", key, v, internalerr.ErrInvalidInput)
	}
	return s, nil
}
