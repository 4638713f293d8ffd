package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrUnregistered  = errors.New("model kind not registered")
	ErrAlignment     = errors.New("axis alignment mismatch")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoPersistor   = errors.New("corpus has no persistor")
	ErrNotFitted     = errors.New("model not fitted")
)
