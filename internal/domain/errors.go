package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidContent  = errors.New("invalid content")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidRole     = errors.New("invalid role")
	ErrParentProject   = errors.New("parent task belongs to a different project")
)
