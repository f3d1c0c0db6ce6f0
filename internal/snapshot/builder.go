package snapshot

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/metrics"
	"github.com/persistorai/socialgraph/internal/models"
)

var tracer = otel.Tracer("socialgraph.snapshot")

// Builder pulls a fresh Snapshot from the graph store.
type Builder struct {
	reader domain.GraphReader
	log    *logrus.Logger
}

// NewBuilder creates a Builder reading from reader. The reader is borrowed;
// the Builder never closes it.
func NewBuilder(reader domain.GraphReader, log *logrus.Logger) *Builder {
	return &Builder{reader: reader, log: log}
}

// Build fetches all users and friendship pairs and returns an immutable
// Snapshot. A failed read returns the store error and no snapshot.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.Build")
	defer span.End()

	nodes, pairs, err := b.read(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	snap := New(nodes, pairs)

	dropped := len(pairs) - snap.EdgeCount()
	if dropped > 0 {
		b.log.WithField("dropped", dropped).Debug("snapshot: dropped invalid or duplicate pairs")
	}

	metrics.SnapshotNodes.Set(float64(snap.NodeCount()))
	metrics.SnapshotEdges.Set(float64(snap.EdgeCount()))

	span.SetAttributes(
		attribute.Int("node_count", snap.NodeCount()),
		attribute.Int("edge_count", snap.EdgeCount()),
	)

	b.log.WithFields(logrus.Fields{
		"nodes": snap.NodeCount(),
		"edges": snap.EdgeCount(),
	}).Debug("snapshot.build")

	return snap, nil
}

func (b *Builder) read(ctx context.Context) ([]string, []models.Friendship, error) {
	if sr, ok := b.reader.(domain.SnapshotReader); ok {
		return sr.ReadSnapshot(ctx)
	}

	nodes, err := b.reader.Usernames(ctx)
	if err != nil {
		return nil, nil, err
	}

	pairs, err := b.reader.FriendPairs(ctx)
	if err != nil {
		return nil, nil, err
	}

	return nodes, pairs, nil
}
