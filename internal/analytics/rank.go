// Package analytics computes influence rankings and community partitions
// over in-memory graph snapshots.
package analytics

import (
	"math"
	"sort"

	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/snapshot"
)

// Ranking defaults.
const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
	DefaultTopN          = 10

	// AllNodes as TopN keeps every ranked user.
	AllNodes = math.MaxInt

	// scorePlaces is the number of decimals kept when presenting scores.
	scorePlaces = 3
)

// RankOptions configures the power-iteration ranking.
type RankOptions struct {
	// TopN bounds the result length. Zero or negative yields no users; use
	// AllNodes to keep every node.
	TopN int

	// Damping is the fraction of score that follows friendships; the rest is
	// spread uniformly as the restart term. Must be in (0, 1).
	Damping float64

	// MaxIterations bounds the number of power iterations.
	MaxIterations int

	// Tolerance stops iterating once the L1 change between iterations drops
	// below it.
	Tolerance float64
}

// DefaultRankOptions returns the top 10 users with damping 0.85, at most 100
// iterations and a tolerance of 1e-6.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		TopN:          DefaultTopN,
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Validate replaces out-of-range values with defaults.
func (o *RankOptions) Validate() {
	if o.Damping <= 0 || o.Damping >= 1 || math.IsNaN(o.Damping) {
		o.Damping = DefaultDamping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) {
		o.Tolerance = DefaultTolerance
	}
}

// Rank computes PageRank over the undirected snapshot, treating every
// friendship as a link in both directions.
//
// Every node starts at 1/N. Each iteration gives each node (1-d)/N, passes d
// of every node's score in equal shares to its friends, and spreads d of the
// score held by isolated nodes uniformly over all nodes, so total mass stays
// at 1. Iteration stops when the L1 change falls below the tolerance or the
// iteration bound is reached; in the latter case the last iterate is returned
// with Converged false.
//
// Users are ordered by presented score descending, then username ascending.
func Rank(snap *snapshot.Snapshot, opts RankOptions) models.RankingResult {
	opts.Validate()

	n := snap.NodeCount()
	if n == 0 {
		return models.RankingResult{Users: []models.RankedUser{}, Method: models.RankMethodPageRank, Converged: true}
	}

	adj := snap.Adjacency()
	nf := float64(n)
	base := (1 - opts.Damping) / nf

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / nf
	}

	next := make([]float64, n)
	iterations := 0
	converged := false

	for iterations < opts.MaxIterations {
		iterations++

		var danglingSum float64
		for i, nbrs := range adj {
			if len(nbrs) == 0 {
				danglingSum += rank[i]
			}
		}
		danglingShare := opts.Damping * danglingSum / nf

		for i, nbrs := range adj {
			var sum float64
			for _, j := range nbrs {
				sum += rank[j] / float64(len(adj[j]))
			}
			next[i] = base + danglingShare + opts.Damping*sum
		}

		var delta float64
		for i := range rank {
			delta += math.Abs(next[i] - rank[i])
		}

		rank, next = next, rank

		if delta < opts.Tolerance {
			converged = true
			break
		}
	}

	scores := make(map[string]float64, n)
	for i, s := range rank {
		scores[snap.Name(i)] = s
	}

	return models.RankingResult{
		Users:      presentRanking(scores, opts.TopN),
		Method:     models.RankMethodPageRank,
		Iterations: iterations,
		Converged:  converged,
		NodeCount:  n,
	}
}

// RankByDegree is the deterministic degree-based ranking: each user's score
// is its friend count divided by the largest friend count in the snapshot.
// A snapshot without edges scores everyone 0.
func RankByDegree(snap *snapshot.Snapshot, topN int) models.RankingResult {
	n := snap.NodeCount()
	if n == 0 {
		return models.RankingResult{Users: []models.RankedUser{}, Method: models.RankMethodDegree, Converged: true}
	}

	maxDeg := 0
	for _, nbrs := range snap.Adjacency() {
		if len(nbrs) > maxDeg {
			maxDeg = len(nbrs)
		}
	}

	if maxDeg == 0 {
		maxDeg = 1
	}

	scores := make(map[string]float64, n)
	for i, nbrs := range snap.Adjacency() {
		scores[snap.Name(i)] = float64(len(nbrs)) / float64(maxDeg)
	}

	return models.RankingResult{
		Users:     presentRanking(scores, topN),
		Method:    models.RankMethodDegree,
		Converged: true,
		NodeCount: n,
	}
}

// presentRanking rounds scores, orders them and truncates to topN. Ordering
// uses the rounded value so equal presented scores always list usernames
// ascending.
func presentRanking(scores map[string]float64, topN int) []models.RankedUser {
	users := make([]models.RankedUser, 0, len(scores))
	for name, s := range scores {
		users = append(users, models.RankedUser{Username: name, Score: round(s, scorePlaces)})
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Score != users[j].Score {
			return users[i].Score > users[j].Score
		}
		return users[i].Username < users[j].Username
	})

	users = users[:min(max(topN, 0), len(users))]

	return users
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
