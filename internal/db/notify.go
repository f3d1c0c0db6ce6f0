package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/dbpool"
	"github.com/persistorai/socialgraph/internal/models"
)

// ChangesChannel is the NOTIFY channel user and friendship writes publish on.
const ChangesChannel = "sg_changes"

const (
	minRetryDelay = time.Second
	maxRetryDelay = 30 * time.Second

	// pollInterval bounds each wait so a cancelled context is noticed even
	// when no writes arrive.
	pollInterval = 2 * time.Minute
)

// ChangeSink receives graph change events relayed from Postgres.
type ChangeSink interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// ChangeListener holds one pooled connection in LISTEN on ChangesChannel and
// relays every well-formed graph change to a ChangeSink, normally the
// websocket hub. Writes made through any process sharing the database reach
// the feed this way.
type ChangeListener struct {
	pool *dbpool.Pool
	sink ChangeSink
	log  *logrus.Logger
}

// NewChangeListener creates a ChangeListener.
func NewChangeListener(pool *dbpool.Pool, sink ChangeSink, log *logrus.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, sink: sink, log: log}
}

// Start fails fast when the database is unreachable, then relays changes in
// the background until ctx ends. Lost connections are re-established with a
// growing, jittered delay.
func (l *ChangeListener) Start(ctx context.Context) error {
	if err := l.pool.Ping(ctx); err != nil {
		return fmt.Errorf("change listener: ping: %w", err)
	}

	go l.run(ctx)

	return nil
}

func (l *ChangeListener) run(ctx context.Context) {
	delay := minRetryDelay

	for ctx.Err() == nil {
		err := l.relay(ctx)
		if err == nil {
			return
		}

		l.log.WithError(err).WithField("retry_in", delay).Warn("change listener: connection lost")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		delay = retryDelay(delay)
	}
}

// relay subscribes on a fresh connection and forwards notifications. It
// returns nil once ctx is done and an error when the connection fails.
func (l *ChangeListener) relay(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring listen connection: %w", err)
	}
	defer conn.Release()

	// LISTEN does not take bind parameters.
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangesChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", ChangesChannel, err)
	}

	l.log.WithField("channel", ChangesChannel).Info("change listener: subscribed")

	for {
		n, err := waitOnce(ctx, conn.Conn())
		switch {
		case ctx.Err() != nil:
			return nil
		case isTimeout(err):
			continue
		case err != nil:
			return fmt.Errorf("waiting on %s: %w", ChangesChannel, err)
		}

		l.forward(n.Payload)
	}
}

func waitOnce(ctx context.Context, conn *pgx.Conn) (*pgconn.Notification, error) {
	if err := conn.PgConn().Conn().SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
		return nil, err
	}

	return conn.WaitForNotification(ctx)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// forward decodes payload and hands it to the sink. Payloads that are not a
// change to a known table are logged and dropped.
func (l *ChangeListener) forward(payload string) {
	var change models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &change); err != nil || !knownTable(change.Table) {
		l.log.WithField("payload", payload).Warn("change listener: dropping malformed payload")
		return
	}

	l.log.WithFields(logrus.Fields{
		"table": change.Table,
		"op":    change.Op,
	}).Debug("change listener: relaying")

	l.sink.BroadcastEvent(models.ChangeEventType, json.RawMessage(payload))
}

func knownTable(t string) bool {
	switch t {
	case models.TableUsers, models.TableFriendships, models.TableGraph:
		return true
	}
	return false
}

// retryDelay doubles d up to maxRetryDelay and applies ±25% jitter.
func retryDelay(d time.Duration) time.Duration {
	d = min(2*d, maxRetryDelay)
	return time.Duration(float64(d) * (0.75 + rand.Float64()/2)) //nolint:gosec // jitter only.
}
