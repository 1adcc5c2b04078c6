// Package models contains the server-side entities persisted in Postgres
// plus the transient records held in the expiring keyed store.
package models

import "time"

// Account is a registered user of the platform.
//
// TokenVersion starts at 0 and is bumped by exactly one on every successful
// login (and on password reset). A bearer credential is only honored while
// the version it embeds equals this field, which gives single-active-session
// semantics: logging in elsewhere silently revokes earlier credentials.
type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	TokenVersion int64
	CreatedAt    time.Time
}

// PendingSignup is the transient record held between /signup and
// /verify-otp. It lives in the expiring keyed store (not Postgres), keyed by
// email, so any instance can complete the verification. Re-signup for the
// same email replaces it wholesale.
type PendingSignup struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
	OTP          string `json:"otp"`
}
