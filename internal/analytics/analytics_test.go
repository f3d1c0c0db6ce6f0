package analytics

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/snapshot"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func graph(nodes []string, pairs ...[2]string) *snapshot.Snapshot {
	fs := make([]models.Friendship, 0, len(pairs))
	for _, p := range pairs {
		fs = append(fs, models.NewFriendship(p[0], p[1]))
	}
	return snapshot.New(nodes, fs)
}

func usernames(users []models.RankedUser) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

func TestRank_EmptySnapshot(t *testing.T) {
	res := Rank(graph(nil), DefaultRankOptions())
	if len(res.Users) != 0 {
		t.Fatalf("users = %v, want empty", res.Users)
	}
	if res.Iterations != 0 {
		t.Errorf("iterations = %d, want 0", res.Iterations)
	}
	if res.Users == nil {
		t.Error("users should be an empty slice, not nil")
	}
}

func TestRank_PathCenterFirst(t *testing.T) {
	res := Rank(graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}), DefaultRankOptions())

	if got, want := usernames(res.Users), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if res.Users[1].Score != res.Users[2].Score {
		t.Errorf("a and c should tie: %v vs %v", res.Users[1].Score, res.Users[2].Score)
	}
	if !res.Converged {
		t.Error("expected convergence on a 3-node path")
	}
	if res.Method != models.RankMethodPageRank {
		t.Errorf("method = %q", res.Method)
	}
}

func TestRank_MassConserved(t *testing.T) {
	snap := graph([]string{"z", "y"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"}, [2]string{"c", "d"})

	res := Rank(snap, DefaultRankOptions())

	var sum float64
	for _, u := range res.Users {
		sum += u.Score
	}
	if math.Abs(sum-1) > 0.005 {
		t.Errorf("score sum = %v, want ~1", sum)
	}

	last := res.Users[len(res.Users)-1]
	if last.Username != "z" {
		t.Errorf("last = %q, want isolated z", last.Username)
	}
}

func TestRank_OrderingAndTruncation(t *testing.T) {
	snap := graph([]string{"solo"},
		[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"a", "d"},
		[2]string{"e", "f"}, [2]string{"g", "h"}, [2]string{"b", "c"})

	tests := []struct {
		name string
		topN int
		want int
	}{
		{"truncated", 3, 3},
		{"larger than graph", 50, snap.NodeCount()},
		{"all nodes", AllNodes, snap.NodeCount()},
		{"zero", 0, 0},
		{"negative", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultRankOptions()
			opts.TopN = tt.topN
			res := Rank(snap, opts)

			if len(res.Users) != tt.want {
				t.Fatalf("len = %d, want %d", len(res.Users), tt.want)
			}

			for i := 1; i < len(res.Users); i++ {
				prev, cur := res.Users[i-1], res.Users[i]
				if cur.Score > prev.Score {
					t.Errorf("scores increase at %d: %v > %v", i, cur.Score, prev.Score)
				}
				if cur.Score == prev.Score && cur.Username < prev.Username {
					t.Errorf("tie at %d not ascending: %q before %q", i, prev.Username, cur.Username)
				}
			}
		})
	}
}

func TestRank_IterationBound(t *testing.T) {
	opts := RankOptions{MaxIterations: 1, Tolerance: 1e-12}
	res := Rank(graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}), opts)

	if res.Converged {
		t.Error("expected converged=false when the bound is hit")
	}
	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}
	if len(res.Users) != 3 {
		t.Errorf("best iterate should still be returned, got %d users", len(res.Users))
	}
}

func TestRank_Deterministic(t *testing.T) {
	snap := graph([]string{"q"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"d", "a"}, [2]string{"a", "c"})

	first := Rank(snap, DefaultRankOptions())
	second := Rank(snap, DefaultRankOptions())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rank not deterministic:\n%v\n%v", first, second)
	}
}

func TestRankOptions_Validate(t *testing.T) {
	opts := RankOptions{Damping: 1.5, MaxIterations: -1, Tolerance: 0}
	opts.Validate()

	if opts.Damping != DefaultDamping {
		t.Errorf("damping = %v", opts.Damping)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("max iterations = %v", opts.MaxIterations)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("tolerance = %v", opts.Tolerance)
	}

	kept := RankOptions{Damping: 0.5, MaxIterations: 7, Tolerance: 1e-3}
	kept.Validate()
	if kept.Damping != 0.5 || kept.MaxIterations != 7 || kept.Tolerance != 1e-3 {
		t.Errorf("valid options changed: %+v", kept)
	}
}

func TestRankByDegree(t *testing.T) {
	res := RankByDegree(graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}), AllNodes)

	want := []models.RankedUser{{Username: "b", Score: 1}, {Username: "a", Score: 0.5}, {Username: "c", Score: 0.5}}
	if !reflect.DeepEqual(res.Users, want) {
		t.Errorf("users = %v, want %v", res.Users, want)
	}
	if res.Method != models.RankMethodDegree {
		t.Errorf("method = %q", res.Method)
	}
}

func TestRank_ZeroTopNIsEmpty(t *testing.T) {
	snap := graph([]string{"a", "b", "c"}, [2]string{"a", "b"})

	res := Rank(snap, RankOptions{TopN: 0})
	if res.Users == nil || len(res.Users) != 0 {
		t.Errorf("pagerank users = %v, want empty slice", res.Users)
	}
	if res.NodeCount != 3 {
		t.Errorf("node count = %d, want 3", res.NodeCount)
	}

	if deg := RankByDegree(snap, 0); len(deg.Users) != 0 {
		t.Errorf("degree users = %v, want empty", deg.Users)
	}
}

func TestPresentRanking_OrdersByRoundedScore(t *testing.T) {
	// b beats a on the raw score, but both present as 0.123, so the
	// username order decides who makes the cut.
	scores := map[string]float64{"c": 0.5, "b": 0.1234, "a": 0.1231}

	want := []models.RankedUser{{Username: "c", Score: 0.5}, {Username: "a", Score: 0.123}}
	if got := presentRanking(scores, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRankByDegree_NoEdges(t *testing.T) {
	res := RankByDegree(graph([]string{"c", "a", "b"}), 2)

	want := []models.RankedUser{{Username: "a", Score: 0}, {Username: "b", Score: 0}}
	if !reflect.DeepEqual(res.Users, want) {
		t.Errorf("users = %v, want %v", res.Users, want)
	}
}

func members(cs []models.Community) [][]string {
	out := make([][]string, len(cs))
	for i, c := range cs {
		out[i] = c.Members
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		snap *snapshot.Snapshot
		want [][]string
	}{
		{
			name: "empty",
			snap: graph(nil),
			want: [][]string{},
		},
		{
			name: "path splits into pairs",
			snap: graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}),
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "triangle stays whole",
			snap: graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"}),
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "bridged triangles",
			snap: graph(nil,
				[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"},
				[2]string{"d", "e"}, [2]string{"e", "f"}, [2]string{"d", "f"},
				[2]string{"c", "d"}),
			want: [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
		},
		{
			name: "isolated users stay singletons",
			snap: graph([]string{"z", "y"}, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"}),
			want: [][]string{{"a", "b", "c"}, {"y"}, {"z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := members(Partition(tt.snap))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartition_CoversEveryUserOnce(t *testing.T) {
	snap := graph([]string{"loner"},
		[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "c"}, [2]string{"c", "d"},
		[2]string{"d", "e"}, [2]string{"e", "f"}, [2]string{"f", "d"}, [2]string{"g", "h"},
		[2]string{"h", "i"}, [2]string{"i", "j"}, [2]string{"j", "g"}, [2]string{"f", "g"})

	communities := Partition(snap)

	seen := make(map[string]int)
	for i, c := range communities {
		if c.Size() == 0 {
			t.Errorf("community %d is empty", i)
		}
		for _, u := range c.Members {
			seen[u]++
		}
		if i > 0 && c.Size() > communities[i-1].Size() {
			t.Errorf("community %d larger than previous", i)
		}
	}

	for _, u := range snap.Nodes() {
		if seen[u] != 1 {
			t.Errorf("%q appears %d times", u, seen[u])
		}
	}
	if len(seen) != snap.NodeCount() {
		t.Errorf("partition covers %d users, snapshot has %d", len(seen), snap.NodeCount())
	}

	if again := Partition(snap); !reflect.DeepEqual(communities, again) {
		t.Errorf("partition not deterministic:\n%v\n%v", communities, again)
	}
}

func TestModularity(t *testing.T) {
	path := graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"})
	if q := Modularity(path, Partition(path)); math.Abs(q-1.0/6) > 1e-9 {
		t.Errorf("path modularity = %v, want 1/6", q)
	}

	triangle := graph(nil, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"})
	if q := Modularity(triangle, Partition(triangle)); math.Abs(q) > 1e-9 {
		t.Errorf("triangle modularity = %v, want 0", q)
	}

	if q := Modularity(graph([]string{"a", "b"}), nil); q != 0 {
		t.Errorf("edgeless modularity = %v, want 0", q)
	}
}

type fakeReader struct {
	users []string
	pairs []models.Friendship
	err   error
	calls int
}

func (f *fakeReader) Usernames(context.Context) ([]string, error) {
	f.calls++
	return f.users, f.err
}

func (f *fakeReader) FriendPairs(context.Context) ([]models.Friendship, error) {
	return f.pairs, f.err
}

func (f *fakeReader) MutualFriends(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeReader) MutualFriendCount(context.Context, string, string) (int, error) {
	return 0, nil
}

func (f *fakeReader) SecondDegree(context.Context, string, int) ([]models.Candidate, error) {
	return nil, nil
}

func (f *fakeReader) Degree(context.Context, string) (int, error) {
	return 0, nil
}

func newTestService(r *fakeReader) *Service {
	log := testLogger()
	return NewService(snapshot.NewBuilder(r, log), DefaultRankOptions(), log)
}

func TestService_Rank(t *testing.T) {
	r := &fakeReader{
		users: []string{"a", "b", "c"},
		pairs: []models.Friendship{models.NewFriendship("a", "b"), models.NewFriendship("b", "c")},
	}
	svc := newTestService(r)

	res, err := svc.Rank(context.Background(), "", RankOptions{TopN: 2})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got := usernames(res.Users); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("users = %v", got)
	}
	if res.Method != models.RankMethodPageRank {
		t.Errorf("method = %q", res.Method)
	}

	res, err = svc.Rank(context.Background(), models.RankMethodDegree, RankOptions{TopN: 3})
	if err != nil {
		t.Fatalf("Rank degree: %v", err)
	}
	if res.Users[0].Username != "b" || res.Users[0].Score != 1 {
		t.Errorf("degree top = %+v", res.Users[0])
	}
}

func TestService_RankInvalidMethod(t *testing.T) {
	r := &fakeReader{}
	_, err := newTestService(r).Rank(context.Background(), "betweenness", RankOptions{})
	if !errors.Is(err, models.ErrInvalidMethod) {
		t.Errorf("err = %v, want ErrInvalidMethod", err)
	}
	if r.calls != 0 {
		t.Error("store should not be read for an invalid method")
	}
}

func TestService_PropagatesStoreFailure(t *testing.T) {
	storeErr := errors.Join(models.ErrStoreRead, errors.New("connection refused"))
	svc := newTestService(&fakeReader{err: storeErr})

	if _, err := svc.Rank(context.Background(), "", RankOptions{}); !errors.Is(err, models.ErrStoreRead) {
		t.Errorf("Rank err = %v", err)
	}
	if _, err := svc.Communities(context.Background()); !errors.Is(err, models.ErrStoreRead) {
		t.Errorf("Communities err = %v", err)
	}
}

func TestService_Communities(t *testing.T) {
	r := &fakeReader{
		users: []string{"a", "b", "c", "d"},
		pairs: []models.Friendship{
			models.NewFriendship("a", "b"), models.NewFriendship("b", "c"), models.NewFriendship("c", "d"),
		},
	}

	res, err := newTestService(r).Communities(context.Background())
	if err != nil {
		t.Fatalf("Communities: %v", err)
	}
	if got := members(res.Communities); !reflect.DeepEqual(got, [][]string{{"a", "b"}, {"c", "d"}}) {
		t.Errorf("communities = %v", got)
	}
	if res.Modularity != 0.1667 {
		t.Errorf("modularity = %v, want 0.1667", res.Modularity)
	}
	if res.NodeCount != 4 || res.EdgeCount != 3 {
		t.Errorf("counts = %d/%d", res.NodeCount, res.EdgeCount)
	}
}
