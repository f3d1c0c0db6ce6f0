package models

// Change operations and tables reported on the change feed.
const (
	ChangeEventType = "graph.change"

	OpInsert = "insert"
	OpDelete = "delete"
	OpClear  = "clear"

	TableUsers       = "users"
	TableFriendships = "friendships"
	TableGraph       = "graph"
)

// ChangeEvent describes one graph mutation.
type ChangeEvent struct {
	Table    string `json:"table"`
	Op       string `json:"op"`
	Username string `json:"username,omitempty"`
	UserA    string `json:"user_a,omitempty"`
	UserB    string `json:"user_b,omitempty"`
}
