package analytics

import (
	"sort"

	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/snapshot"
)

// minGain is the smallest modularity increase accepted as an improvement.
// Gains at or below it are float noise around zero.
const minGain = 1e-12

// Partition groups the snapshot's users into disjoint communities by greedy
// modularity maximization.
//
// Every user starts in a singleton community. Each step merges the connected
// pair of communities with the largest modularity gain; merging stops once no
// pair improves modularity. Users without friends stay singletons.
//
// Members are listed ascending. Communities are ordered by size descending,
// then by their first member. Equal gains resolve to the pair whose smaller
// community index comes first, so repeated runs return identical results.
func Partition(snap *snapshot.Snapshot) []models.Community {
	n := snap.NodeCount()
	if n == 0 {
		return []models.Community{}
	}

	adj := snap.Adjacency()
	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}

	if m := snap.EdgeCount(); m > 0 {
		mergeGreedy(adj, members, float64(m))
	}

	communities := make([]models.Community, 0, n)
	for _, idx := range members {
		if idx == nil {
			continue
		}
		sort.Ints(idx)
		names := make([]string, len(idx))
		for k, i := range idx {
			names[k] = snap.Name(i)
		}
		communities = append(communities, models.Community{Members: names})
	}

	sort.SliceStable(communities, func(i, j int) bool {
		if len(communities[i].Members) != len(communities[j].Members) {
			return len(communities[i].Members) > len(communities[j].Members)
		}
		return communities[i].Members[0] < communities[j].Members[0]
	})

	return communities
}

// mergeGreedy runs the merge loop in place. members[j] is set to nil once
// community j has been absorbed.
//
// a[i] is the fraction of edge ends attached to community i and e[i][j] is
// half the fraction of edges running between communities i and j, so merging
// i and j changes modularity by 2*(e[i][j] - a[i]*a[j]).
func mergeGreedy(adj [][]int, members [][]int, m float64) {
	n := len(adj)
	twoM := 2 * m

	a := make([]float64, n)
	e := make([]map[int]float64, n)
	for i, nbrs := range adj {
		a[i] = float64(len(nbrs)) / twoM
		e[i] = make(map[int]float64, len(nbrs))
		for _, j := range nbrs {
			e[i][j] += 1 / twoM
		}
	}

	for {
		bestI, bestJ := -1, -1
		bestGain := minGain

		for i := range n {
			if members[i] == nil {
				continue
			}
			for _, j := range sortedKeys(e[i]) {
				if j <= i {
					continue
				}
				if gain := 2 * (e[i][j] - a[i]*a[j]); gain > bestGain {
					bestI, bestJ, bestGain = i, j, gain
				}
			}
		}

		if bestI < 0 {
			return
		}

		merge(bestI, bestJ, a, e)
		members[bestI] = append(members[bestI], members[bestJ]...)
		members[bestJ] = nil
	}
}

// merge folds community j into community i.
func merge(i, j int, a []float64, e []map[int]float64) {
	for k, v := range e[j] {
		delete(e[k], j)
		if k == i {
			continue
		}
		e[i][k] += v
		e[k][i] += v
	}

	a[i] += a[j]
	a[j] = 0
	e[j] = nil
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Modularity returns Q for the given communities: the fraction of edges that
// fall inside a community minus the fraction expected if edges were placed at
// random with the same degrees. A snapshot without edges has modularity 0.
// Users missing from every community are ignored.
func Modularity(snap *snapshot.Snapshot, communities []models.Community) float64 {
	m := float64(snap.EdgeCount())
	if m == 0 {
		return 0
	}

	label := make(map[string]int, snap.NodeCount())
	for c, comm := range communities {
		for _, u := range comm.Members {
			label[u] = c
		}
	}

	internal := make([]float64, len(communities))
	degrees := make([]float64, len(communities))

	for _, f := range snap.Edges() {
		ca, okA := label[f.UserA]
		cb, okB := label[f.UserB]
		if okA {
			degrees[ca]++
		}
		if okB {
			degrees[cb]++
		}
		if okA && okB && ca == cb {
			internal[ca]++
		}
	}

	var q float64
	for c := range communities {
		frac := degrees[c] / (2 * m)
		q += internal[c]/m - frac*frac
	}

	return q
}
