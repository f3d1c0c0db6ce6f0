// Package recommend scores friend-of-friend candidates and selects the best
// ones for a user.
package recommend

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/metrics"
	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/telemetry"
)

var tracer = otel.Tracer("socialgraph.recommend")

// Scoring defaults.
const (
	DefaultAlpha = 0.7
	DefaultBeta  = 0.3

	// overfetch is how many candidates are read per requested result.
	overfetch = 3
)

// Options holds the scoring weights.
type Options struct {
	// Alpha rewards each mutual friend.
	Alpha float64
	// Beta penalizes popular candidates by the log of their friend count.
	Beta float64
}

// DefaultOptions returns alpha 0.7 and beta 0.3.
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha, Beta: DefaultBeta}
}

// Engine answers mutual-friend and recommendation queries against a graph
// store it does not own.
type Engine struct {
	reader domain.GraphReader
	alpha  float64
	beta   float64
	log    *logrus.Logger
}

// NewEngine creates an Engine reading from reader.
func NewEngine(reader domain.GraphReader, opts Options, log *logrus.Logger) *Engine {
	return &Engine{reader: reader, alpha: opts.Alpha, beta: opts.Beta, log: log}
}

// MutualFriendCount returns how many friends a and b share.
func (e *Engine) MutualFriendCount(ctx context.Context, a, b string) (int, error) {
	return e.reader.MutualFriendCount(ctx, a, b)
}

// ListMutualFriends returns the friends a and b share, ascending.
func (e *Engine) ListMutualFriends(ctx context.Context, a, b string) ([]string, error) {
	mutuals, err := e.reader.MutualFriends(ctx, a, b)
	if err != nil {
		return nil, err
	}

	if mutuals == nil {
		mutuals = []string{}
	}

	return mutuals, nil
}

// SuggestSecondDegree returns up to limit friends-of-friends of username,
// by mutual count descending then username ascending.
func (e *Engine) SuggestSecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		return []models.Candidate{}, nil
	}

	candidates, err := e.reader.SecondDegree(ctx, username, limit)
	if err != nil {
		return nil, err
	}

	if candidates == nil {
		candidates = []models.Candidate{}
	}

	e.log.WithFields(logrus.Fields{
		"username":   username,
		"limit":      limit,
		"candidates": len(candidates),
	}).Debug("recommend.suggest")

	return candidates, nil
}

// ComputeScore scores candidate for username, looking up their mutual
// friend count.
func (e *Engine) ComputeScore(ctx context.Context, username, candidate string) (float64, error) {
	mutuals, err := e.reader.MutualFriendCount(ctx, username, candidate)
	if err != nil {
		return 0, err
	}

	return e.ScoreCandidate(ctx, models.Candidate{Username: candidate, MutualCount: mutuals})
}

// ScoreCandidate scores c using its supplied mutual count:
// alpha*mutuals - beta*ln(1+degree), rounded to 4 decimals.
func (e *Engine) ScoreCandidate(ctx context.Context, c models.Candidate) (float64, error) {
	degree, err := e.reader.Degree(ctx, c.Username)
	if err != nil {
		return 0, err
	}

	return e.score(c.MutualCount, degree), nil
}

func (e *Engine) score(mutuals, degree int) float64 {
	s := e.alpha*float64(mutuals) - e.beta*math.Log1p(float64(degree))
	return math.Round(s*1e4) / 1e4
}

// candidateLimit is overfetch*k bounded by the store's fetch cap.
func candidateLimit(k int) int {
	if k > models.MaxCandidateFetch/overfetch {
		return models.MaxCandidateFetch
	}
	return overfetch * k
}

// RecommendTopK returns the k best-scoring friend-of-friend recommendations
// for username, by score descending then username ascending. It reads 3*k
// candidates by mutual count so the degree penalty can reorder them. A user
// without second-degree contacts gets an empty slice.
func (e *Engine) RecommendTopK(ctx context.Context, username string, k int) ([]models.ScoredRecommendation, error) {
	if k <= 0 {
		return []models.ScoredRecommendation{}, nil
	}

	ctx, span := tracer.Start(ctx, "recommend.TopK")
	defer span.End()

	start := time.Now()

	candidates, err := e.reader.SecondDegree(ctx, username, candidateLimit(k))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.RecommendCandidates.Observe(float64(len(candidates)))

	best := newTopK(k, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := e.ScoreCandidate(ctx, c)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		best.offer(models.ScoredRecommendation{Username: c.Username, Score: s, Mutuals: c.MutualCount})
	}

	recs := best.sorted()

	metrics.AnalyticsDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.Int("k", k),
		attribute.Int("candidates", len(candidates)),
		attribute.Int("returned", len(recs)),
	)

	fields := logrus.Fields{
		"username":   username,
		"k":          k,
		"candidates": len(candidates),
		"returned":   len(recs),
	}
	if id := telemetry.TraceID(ctx); id != "" {
		fields["trace_id"] = id
	}

	e.log.WithFields(fields).Debug("recommend.top_k")

	return recs, nil
}
