package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAccessDenied indicates the caller is not entitled to the resource.
	// The pricing gate treats it as a distinguished condition, not a failure.
	ErrAccessDenied = errors.New("access denied")
)
