// Package common defines shared constants and sentinel errors used across
// client and server layers of finledger. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorConflict     = errors.New("already exists")
	ErrorForbidden    = errors.New("forbidden")
	ErrorUnauthorized = errors.New("unauthorized")

	// Handshake errors.
	ErrInvalidProof = errors.New("invalid session proof")

	// Capability errors.
	ErrInvalidLevel       = errors.New("invalid permission level")
	ErrSelfOwnerProtected = errors.New("owner permission cannot be changed by its holder")
)
