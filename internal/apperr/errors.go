// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrSignedOut     = errors.New("not signed in")
	ErrNotSubscribed = errors.New("subscription required")
	ErrUnavailable   = errors.New("service unavailable")
)
