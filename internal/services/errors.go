package services

import "errors"

var (
	// ErrNotFound means the identifier has no corresponding row. It is
	// surfaced as-is, never converted into a zero-valued entity.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
