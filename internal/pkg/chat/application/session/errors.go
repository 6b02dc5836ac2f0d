package session

import "errors"

// Error taxonomy for chat operations. Each kind is terminal for the single
// operation that raised it: the boundary reports it to the originating
// connection only, and no other connection or room is affected.
var (
	// ErrValidation covers empty or oversized content and malformed payloads.
	ErrValidation = errors.New("chat session: validation failed")

	// ErrAuthorization is returned when the sender is not a member or the
	// creator of the target project. No persistence is attempted.
	ErrAuthorization = errors.New("chat session: not authorized")

	// ErrNotFound is returned for an unknown project or recipient.
	ErrNotFound = errors.New("chat session: not found")

	// ErrPersistence is returned when the store is unreachable or a write
	// failed. The operation is not retried; the client resubmits.
	ErrPersistence = errors.New("chat session: persistence failure")
)
