// Package metrics defines Prometheus metrics for the social graph service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialgraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialgraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AnalyticsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialgraph_analytics_duration_seconds",
			Help:    "Analytics computation duration in seconds, including the snapshot fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RankIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "socialgraph_rank_iterations",
			Help:    "Power iterations performed per ranking",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 80, 100, 200},
		},
	)

	RankShortfalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "socialgraph_rank_convergence_shortfalls_total",
			Help: "Rankings that hit the iteration bound before reaching tolerance",
		},
	)

	SnapshotNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialgraph_snapshot_nodes",
			Help: "Node count of the most recent snapshot",
		},
	)

	SnapshotEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialgraph_snapshot_edges",
			Help: "Edge count of the most recent snapshot",
		},
	)

	RecommendCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "socialgraph_recommend_candidates",
			Help:    "Second-degree candidates scored per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialgraph_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AnalyticsDuration, RankIterations, RankShortfalls,
		SnapshotNodes, SnapshotEdges, RecommendCandidates,
		WSConnections,
	)
}
