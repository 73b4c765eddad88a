package service

import "errors"

// Error kinds surfaced to the HTTP layer, which maps them to status codes.
// None of these are fatal to the process; every failure is per-request.
var (
	// ErrInvalidCredentials deliberately covers both unknown-email and
	// wrong-password so login failures cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrDuplicateEmail    = errors.New("duplicate_email")
	ErrDuplicateUsername = errors.New("duplicate_username")

	ErrTokenExpired   = errors.New("token_expired")
	ErrTokenMalformed = errors.New("token_malformed")
	ErrTokenRevoked   = errors.New("token_revoked")

	// ErrUnauthenticated means no valid actor could be resolved;
	// ErrForbidden means a valid actor lacks the privilege.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrUserNotFound = errors.New("user_not_found")
)
