package repository

import "errors"

var (
	// ErrNotFound covers both an unknown id and an id owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrTitleRequired = errors.New("title is required")
	ErrUserExists    = errors.New("username already taken")
)
