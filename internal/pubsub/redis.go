package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantpulse/indicator-engine/internal/config"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

// Client is the slice of Redis the publisher needs. Kept narrow so tests can
// substitute a fake.
type Client interface {
	// PublishToStream appends a JSON-serialized value to a capped stream
	PublishToStream(ctx context.Context, stream string, key string, value interface{}) error

	// Set stores a JSON-serialized value under a key with TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Close closes the connection
	Close() error
}

// RedisClient implements Client against a real Redis server.
type RedisClient struct {
	client       *redis.Client
	maxStreamLen int64
}

// NewRedisClient creates a new Redis client and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
	)

	return &RedisClient{client: rdb, maxStreamLen: cfg.MaxStreamLen}, nil
}

// PublishToStream publishes a message to a Redis stream. The stream is capped
// at the configured approximate length so slow consumers never grow it
// without bound.
func (r *RedisClient) PublishToStream(ctx context.Context, stream string, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: r.maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			key: string(jsonData),
		},
	}).Err()

	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", stream, err)
	}

	return nil
}

// Set sets a key-value pair with TTL
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.client.Set(ctx, key, jsonData, ttl).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
