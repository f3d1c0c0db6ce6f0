package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingUsername = errors.New("username is required")
	ErrSelfFriendship  = errors.New("a user cannot befriend themselves")
	ErrInvalidUsername = errors.New("username must not contain control characters or surrounding whitespace")
	ErrMissingFriendA  = errors.New("user_a is required")
	ErrMissingFriendB  = errors.New("user_b is required")
	ErrInvalidMethod   = errors.New("unknown ranking method")
)

// Sentinel errors for entity lookups.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrStoreRead marks a failed read against the graph store. Store
// implementations join it into every read error so callers can detect the
// condition with errors.Is while keeping the driver error intact.
var ErrStoreRead = errors.New("graph store read failed")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
