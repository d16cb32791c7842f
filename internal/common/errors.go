// Package common defines shared constants and sentinel errors used across the
// export pipeline, its transports and storage layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorConflict = errors.New("record belongs to another space")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Pipeline errors.
	ErrUnknownCategoryKind  = errors.New("unknown category kind")
	ErrEmptyBackupWindow    = errors.New("nothing to back up in the requested window")
	ErrSerializationFailure = errors.New("serialization failure")
	ErrDeliveryFailure      = errors.New("delivery failure")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrInvalidWindow        = errors.New("invalid time window")
)
