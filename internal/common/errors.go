// Package common defines shared sentinel errors and small helpers used
// across the server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Login errors. Unknown email and wrong password are deliberately
	// indistinguishable to the caller.
	ErrorAuthenticationFailed = errors.New("authentication failed")

	// Bearer credential errors checked on every protected request.
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrSessionSuperseded = errors.New("session superseded by a newer login")
	ErrorAccountNotFound = errors.New("account not found")

	// OTP errors. A missing and an expired code are the same thing once
	// the store TTL has fired.
	ErrOTPMismatch = errors.New("otp mismatch")
	ErrOTPExpired  = errors.New("otp expired or not issued")
	ErrOTPThrottle = errors.New("otp send limit reached")
)
