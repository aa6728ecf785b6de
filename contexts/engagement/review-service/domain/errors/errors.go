package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrSelfReview      = errors.New("users cannot review themselves")
	ErrScoreOutOfRange = errors.New("score must be between 1 and 5")
	ErrNotFound        = errors.New("not found")
)
