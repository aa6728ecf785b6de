package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnknownCategory = errors.New("unknown listing category")
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("caller is not authorized for this listing")
	ErrAlreadyReserved = errors.New("listing is already reserved")
	ErrWrongStatus     = errors.New("listing status does not allow this transition")
	ErrVersionMismatch = errors.New("listing was modified concurrently")
	ErrNotFound        = errors.New("not found")
)
