package recommend

import (
	"container/heap"
	"sort"

	"github.com/persistorai/socialgraph/internal/models"
)

// minHeap keeps the weakest recommendation at the root: lowest score, and
// among equal scores the username that sorts last.
type minHeap []models.ScoredRecommendation

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Username > h[j].Username
}

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(models.ScoredRecommendation)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topK retains the k best recommendations offered to it.
type topK struct {
	k int
	h minHeap
}

// newTopK sizes the heap for at most min(k, offers) survivors.
func newTopK(k, offers int) *topK {
	return &topK{k: k, h: make(minHeap, 0, min(k, offers)+1)}
}

// offer pushes r and, once over capacity, evicts the weakest entry.
func (t *topK) offer(r models.ScoredRecommendation) {
	heap.Push(&t.h, r)
	if t.h.Len() > t.k {
		heap.Pop(&t.h)
	}
}

// sorted returns the survivors by score descending, username ascending.
func (t *topK) sorted() []models.ScoredRecommendation {
	out := make([]models.ScoredRecommendation, len(t.h))
	copy(out, t.h)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Username < out[j].Username
	})

	return out
}
