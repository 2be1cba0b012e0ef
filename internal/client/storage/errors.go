package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no session is stored locally
	ErrAuthNotFound = errors.New("authentication data not found")
)
