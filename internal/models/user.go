// Package models defines data types for the social graph.
package models

import (
	"strings"
	"time"
	"unicode"
)

// maxUsernameLen caps usernames at the same length as other identifiers.
const maxUsernameLen = 255

// User is a vertex in the social graph, identified by a unique,
// case-sensitive username.
type User struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest is the payload for creating a new user.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// Validate checks that the username is present and well formed.
func (r *CreateUserRequest) Validate() error {
	return ValidateUsername(r.Username)
}

// ValidateUsername checks a username for presence, length and stray whitespace.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrMissingUsername
	}

	if len(username) > maxUsernameLen {
		return ErrFieldTooLong("username", maxUsernameLen)
	}

	if strings.TrimSpace(username) != username {
		return ErrInvalidUsername
	}

	for _, r := range username {
		if unicode.IsControl(r) {
			return ErrInvalidUsername
		}
	}

	return nil
}
