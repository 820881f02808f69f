// Package common defines shared constants and sentinel errors used across
// CloudFiles components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrorDuplicateKey = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Object storage errors. Each maps to exactly one adapter operation.
	ErrStorageWrite  = errors.New("object storage write failed")
	ErrStorageDelete = errors.New("object storage delete failed")
	ErrPresign       = errors.New("presigned url generation failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
