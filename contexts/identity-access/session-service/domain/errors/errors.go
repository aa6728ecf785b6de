package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrProfileNotFound  = errors.New("role profile not found")
	ErrDuplicateProfile = errors.New("role profile already exists for user")
	ErrNotFound         = errors.New("resource not found")
)
