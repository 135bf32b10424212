package sharedvector

import "github.com/pkg/errors"

var (
	// ErrAllocation is returned when a payload or wrapper cannot be instantiated. Not retried.
	ErrAllocation = errors.New("allocation failed")

	// ErrInvalidKind is returned for an unrecognized kind selector, or a payload of another kind.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrNameTooLong is an internal invariant violation raised when a derived type name exceeds its bound.
	ErrNameTooLong = errors.New("type name too long")

	ErrNilPayload   = errors.New("nil payload")
	ErrSlotMismatch = errors.New("handle and cache link slot counts differ")
)
