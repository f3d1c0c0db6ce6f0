package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/persistorai/socialgraph/internal/metrics"
	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/snapshot"
	"github.com/persistorai/socialgraph/internal/telemetry"
)

var tracer = otel.Tracer("socialgraph.analytics")

// Service builds a fresh snapshot per call and runs ranking or partitioning
// over it. Store writes made after the snapshot is read do not affect the
// result of that call.
type Service struct {
	builder  *snapshot.Builder
	defaults RankOptions
	log      *logrus.Logger
}

// NewService creates a Service. Zero fields in defaults fall back to the
// package defaults.
func NewService(builder *snapshot.Builder, defaults RankOptions, log *logrus.Logger) *Service {
	defaults.Validate()
	return &Service{builder: builder, defaults: defaults, log: log}
}

// Rank ranks users with the given method. Zero option fields take the
// service defaults. Store read failures are returned unchanged.
func (s *Service) Rank(ctx context.Context, method string, opts RankOptions) (*models.RankingResult, error) {
	if method == "" {
		method = models.RankMethodPageRank
	}

	if method != models.RankMethodPageRank && method != models.RankMethodDegree {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidMethod, method)
	}

	opts = s.merge(opts)

	ctx, span := tracer.Start(ctx, "analytics.Rank")
	defer span.End()

	start := time.Now()

	snap, err := s.builder.Build(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var result models.RankingResult
	if method == models.RankMethodDegree {
		result = RankByDegree(snap, opts.TopN)
	} else {
		result = Rank(snap, opts)
		metrics.RankIterations.Observe(float64(result.Iterations))
	}

	metrics.AnalyticsDuration.WithLabelValues("rank_" + method).Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.String("method", method),
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("converged", result.Converged),
	)

	fields := logrus.Fields{
		"method":     method,
		"nodes":      result.NodeCount,
		"top_n":      opts.TopN,
		"iterations": result.Iterations,
	}
	if id := telemetry.TraceID(ctx); id != "" {
		fields["trace_id"] = id
	}

	if !result.Converged {
		metrics.RankShortfalls.Inc()
		s.log.WithFields(fields).WithField("tolerance", opts.Tolerance).
			Warn("analytics.rank: iteration bound reached before tolerance")
	} else {
		s.log.WithFields(fields).Debug("analytics.rank")
	}

	return &result, nil
}

// Communities partitions the current graph and reports the partition's
// modularity.
func (s *Service) Communities(ctx context.Context) (*models.PartitionResult, error) {
	ctx, span := tracer.Start(ctx, "analytics.Communities")
	defer span.End()

	start := time.Now()

	snap, err := s.builder.Build(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	communities := Partition(snap)
	result := &models.PartitionResult{
		Communities: communities,
		Modularity:  round(Modularity(snap, communities), 4),
		NodeCount:   snap.NodeCount(),
		EdgeCount:   snap.EdgeCount(),
	}

	metrics.AnalyticsDuration.WithLabelValues("partition").Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.Int("communities", len(communities)),
		attribute.Float64("modularity", result.Modularity),
	)

	s.log.WithFields(logrus.Fields{
		"nodes":       result.NodeCount,
		"edges":       result.EdgeCount,
		"communities": len(communities),
	}).Debug("analytics.communities")

	return result, nil
}

func (s *Service) merge(opts RankOptions) RankOptions {
	if opts.Damping == 0 {
		opts.Damping = s.defaults.Damping
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = s.defaults.MaxIterations
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = s.defaults.Tolerance
	}
	opts.Validate()
	return opts
}
