package models

import "time"

// Friendship is an unordered pair of distinct usernames. Canonical form
// keeps the lexicographically smaller username in UserA.
type Friendship struct {
	UserA     string     `json:"user_a"`
	UserB     string     `json:"user_b"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NewFriendship returns the canonical friendship for the pair (a, b).
func NewFriendship(a, b string) Friendship {
	if b < a {
		a, b = b, a
	}

	return Friendship{UserA: a, UserB: b}
}

// Canonical returns f with its endpoints ordered.
func (f Friendship) Canonical() Friendship {
	c := NewFriendship(f.UserA, f.UserB)
	c.CreatedAt = f.CreatedAt

	return c
}

// IsSelf reports whether both endpoints are the same user.
func (f Friendship) IsSelf() bool {
	return f.UserA == f.UserB
}

// Other returns the endpoint opposite to username.
func (f Friendship) Other(username string) string {
	if f.UserA == username {
		return f.UserB
	}

	return f.UserA
}

// CreateFriendshipRequest is the payload for creating a friendship.
type CreateFriendshipRequest struct {
	UserA string `json:"user_a"`
	UserB string `json:"user_b"`
}

// Validate checks both endpoints and rejects self-friendships.
func (r *CreateFriendshipRequest) Validate() error {
	if r.UserA == "" {
		return ErrMissingFriendA
	}

	if r.UserB == "" {
		return ErrMissingFriendB
	}

	if err := ValidateUsername(r.UserA); err != nil {
		return err
	}

	if err := ValidateUsername(r.UserB); err != nil {
		return err
	}

	if r.UserA == r.UserB {
		return ErrSelfFriendship
	}

	return nil
}

// Friendship returns the canonical friendship described by the request.
func (r *CreateFriendshipRequest) Friendship() Friendship {
	return NewFriendship(r.UserA, r.UserB)
}
