package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quantpulse/indicator-engine/pkg/indicator"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

var (
	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_publish_total",
			Help: "Total number of snapshots published to streams",
		},
		[]string{"stream", "symbol"},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_publish_errors_total",
			Help: "Total number of snapshot publish errors",
		},
		[]string{"stream", "symbol"},
	)

	publishLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_publish_latency_seconds",
			Help:    "Snapshot publish latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"stream"},
	)
)

// SnapshotMessage is the wire envelope for one published snapshot.
type SnapshotMessage struct {
	Symbol   string              `json:"symbol"`
	Snapshot *indicator.Snapshot `json:"snapshot"`
}

// SnapshotPublisherConfig holds configuration for the snapshot publisher
type SnapshotPublisherConfig struct {
	StreamName    string
	LatestTTL     time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultSnapshotPublisherConfig returns default configuration
func DefaultSnapshotPublisherConfig(streamName string) SnapshotPublisherConfig {
	return SnapshotPublisherConfig{
		StreamName:    streamName,
		LatestTTL:     time.Hour,
		RetryAttempts: 3,
		RetryDelay:    100 * time.Millisecond,
	}
}

// SnapshotPublisher pushes evaluated snapshots to a Redis stream and mirrors
// the latest one per symbol under a plain key for cheap point reads.
type SnapshotPublisher struct {
	config SnapshotPublisherConfig
	redis  Client
}

// NewSnapshotPublisher creates a new snapshot publisher
func NewSnapshotPublisher(redis Client, config SnapshotPublisherConfig) *SnapshotPublisher {
	return &SnapshotPublisher{
		config: config,
		redis:  redis,
	}
}

// LatestKey returns the key holding the most recent snapshot for a symbol.
func (p *SnapshotPublisher) LatestKey(symbol string) string {
	return fmt.Sprintf("indicators:latest:%s", symbol)
}

// Publish sends one snapshot to the stream, retrying transient failures.
func (p *SnapshotPublisher) Publish(ctx context.Context, symbol string, snap *indicator.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	startTime := time.Now()

	msg := &SnapshotMessage{Symbol: symbol, Snapshot: snap}

	var err error
	for attempt := 0; attempt < p.config.RetryAttempts; attempt++ {
		err = p.redis.PublishToStream(ctx, p.config.StreamName, "snapshot", msg)
		if err == nil {
			break
		}

		if attempt < p.config.RetryAttempts-1 {
			logger.Warn("Failed to publish snapshot, retrying",
				logger.ErrorField(err),
				logger.String("stream", p.config.StreamName),
				logger.String("symbol", symbol),
				logger.Int("attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryDelay * time.Duration(attempt+1)):
			}
		}
	}

	if err != nil {
		publishErrors.WithLabelValues(p.config.StreamName, symbol).Inc()
		logger.Error("Failed to publish snapshot after retries",
			logger.ErrorField(err),
			logger.String("stream", p.config.StreamName),
			logger.String("symbol", symbol),
		)
		return err
	}

	// Best effort: the stream is the source of truth, the latest-key mirror
	// only serves point reads.
	if err := p.redis.Set(ctx, p.LatestKey(symbol), msg, p.config.LatestTTL); err != nil {
		logger.Warn("Failed to mirror latest snapshot",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
	}

	publishTotal.WithLabelValues(p.config.StreamName, symbol).Inc()
	publishLatency.WithLabelValues(p.config.StreamName).Observe(time.Since(startTime).Seconds())

	return nil
}
