package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownEvent   = errors.New("unknown listing event type")
	ErrNotFound       = errors.New("not found")
)
