package models

// Ranking methods.
const (
	RankMethodPageRank = "pagerank"
	RankMethodDegree   = "degree"
)

// MaxCandidateFetch caps how many second-degree candidates one query reads.
const MaxCandidateFetch = 1000

// RankedUser pairs a username with its influence score.
type RankedUser struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// RankingResult holds users ordered by score descending, username ascending.
type RankingResult struct {
	Users      []RankedUser `json:"users"`
	Method     string       `json:"method"`
	Iterations int          `json:"iterations"`
	Converged  bool         `json:"converged"`
	NodeCount  int          `json:"node_count"`
}

// Community is a non-empty set of usernames, listed ascending.
type Community struct {
	Members []string `json:"members"`
}

// Size returns the number of members.
func (c Community) Size() int {
	return len(c.Members)
}

// PartitionResult holds disjoint communities ordered by descending size.
type PartitionResult struct {
	Communities []Community `json:"communities"`
	Modularity  float64     `json:"modularity"`
	NodeCount   int         `json:"node_count"`
	EdgeCount   int         `json:"edge_count"`
}

// Candidate is a second-degree contact with the number of friends it shares
// with the query user.
type Candidate struct {
	Username    string `json:"username"`
	MutualCount int    `json:"mutual_count"`
}

// ScoredRecommendation is a candidate scored for recommendation.
type ScoredRecommendation struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	Mutuals  int     `json:"mutuals"`
}

// MutualFriendsResult lists the friends two users have in common.
type MutualFriendsResult struct {
	UserA   string   `json:"user_a"`
	UserB   string   `json:"user_b"`
	Mutuals []string `json:"mutuals"`
	Count   int      `json:"count"`
}
