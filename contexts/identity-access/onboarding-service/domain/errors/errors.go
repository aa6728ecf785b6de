package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownKind    = errors.New("unknown account kind")

	// OTP outcomes are distinct so the client can prompt "resend" vs
	// "retry code".
	ErrOtpNotFound = errors.New("verification code not found")
	ErrOtpExpired  = errors.New("verification code expired")
	ErrOtpMismatch = errors.New("verification code mismatch")

	ErrRegistrationFailed = errors.New("remote registration failed")
	ErrLoginFailed        = errors.New("remote login failed")
	ErrUpstream           = errors.New("upstream service failure")

	ErrProfileConflict = errors.New("role profile already exists for user")
	ErrNotFound        = errors.New("resource not found")
)
