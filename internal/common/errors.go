// Package common defines shared constants and sentinel errors used across
// the escrow service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Contact registry errors.
	ErrDuplicateContact = errors.New("contact already exists")
	ErrInvalidEmail     = errors.New("invalid email address")

	// Crypto errors.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Disclosure precondition errors. Surfaced to the caller verbatim,
	// never retried.
	ErrNoCredentials            = errors.New("no credentials stored")
	ErrNoRecipients             = errors.New("no recipients configured")
	ErrNoDecryptableCredentials = errors.New("no decryptable credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
