// Package snapshot materializes a point-in-time, undirected view of the
// social graph for in-memory analytics.
package snapshot

import (
	"sort"

	"github.com/persistorai/socialgraph/internal/models"
)

// Snapshot is an immutable copy of the graph structure used for one
// computation. Nodes include isolated users; edges are deduplicated
// canonical pairs with no self-loops.
type Snapshot struct {
	nodes     []string
	index     map[string]int
	edges     []models.Friendship
	neighbors [][]int
}

// New builds a Snapshot from raw node and pair lists. Pairs are
// canonicalized; self-pairs and pairs with an empty endpoint are dropped;
// duplicates in either direction collapse to one edge. Endpoints missing from
// nodes are added so the snapshot stays self-consistent.
func New(nodes []string, pairs []models.Friendship) *Snapshot {
	seen := make(map[string]struct{}, len(nodes))
	all := make([]string, 0, len(nodes))

	addNode := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		all = append(all, u)
	}

	for _, u := range nodes {
		addNode(u)
	}

	edgeSet := make(map[models.Friendship]struct{}, len(pairs))
	edges := make([]models.Friendship, 0, len(pairs))

	for _, p := range pairs {
		if p.UserA == "" || p.UserB == "" || p.IsSelf() {
			continue
		}

		c := models.NewFriendship(p.UserA, p.UserB)
		if _, dup := edgeSet[c]; dup {
			continue
		}

		edgeSet[c] = struct{}{}
		edges = append(edges, c)
		addNode(c.UserA)
		addNode(c.UserB)
	}

	sort.Strings(all)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].UserA != edges[j].UserA {
			return edges[i].UserA < edges[j].UserA
		}
		return edges[i].UserB < edges[j].UserB
	})

	index := make(map[string]int, len(all))
	for i, u := range all {
		index[u] = i
	}

	neighbors := make([][]int, len(all))
	for _, e := range edges {
		a, b := index[e.UserA], index[e.UserB]
		neighbors[a] = append(neighbors[a], b)
		neighbors[b] = append(neighbors[b], a)
	}

	for _, n := range neighbors {
		sort.Ints(n)
	}

	return &Snapshot{nodes: all, index: index, edges: edges, neighbors: neighbors}
}

// NodeCount returns the number of users.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of distinct friendships.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Nodes returns all usernames in ascending order.
func (s *Snapshot) Nodes() []string {
	out := make([]string, len(s.nodes))
	copy(out, s.nodes)

	return out
}

// Edges returns all canonical friendships ordered by (UserA, UserB).
func (s *Snapshot) Edges() []models.Friendship {
	out := make([]models.Friendship, len(s.edges))
	copy(out, s.edges)

	return out
}

// Has reports whether username is a node of the snapshot.
func (s *Snapshot) Has(username string) bool {
	_, ok := s.index[username]
	return ok
}

// Degree returns the number of friends of username, or 0 if unknown.
func (s *Snapshot) Degree(username string) int {
	i, ok := s.index[username]
	if !ok {
		return 0
	}

	return len(s.neighbors[i])
}

// Neighbors returns the friends of username in ascending order.
func (s *Snapshot) Neighbors(username string) []string {
	i, ok := s.index[username]
	if !ok {
		return nil
	}

	out := make([]string, len(s.neighbors[i]))
	for k, j := range s.neighbors[i] {
		out[k] = s.nodes[j]
	}

	return out
}

// Adjacency exposes the snapshot as index-based adjacency lists for
// algorithms. Index i corresponds to Nodes()[i]; each list is ascending.
// Callers must not modify the returned slices.
func (s *Snapshot) Adjacency() [][]int {
	return s.neighbors
}

// Name returns the username for node index i.
func (s *Snapshot) Name(i int) string {
	return s.nodes[i]
}
