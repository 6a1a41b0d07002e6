package app

import "errors"

// ErrNotFound and related errors describe lookup and authentication failures.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
