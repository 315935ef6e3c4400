// Package cache provides the optional Redis-backed summary cache sitting
// in front of the aggregation read path.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"horizon/internal/domain/aggregation"
)

// Config holds the Redis connection settings and cache TTL
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SummaryCache caches computed account summaries per user in Redis.
// Misses and storage failures degrade to a provider read; they are
// logged, never returned.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Ensure SummaryCache satisfies the domain cache contract
var _ aggregation.SummaryCache = (*SummaryCache)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(cfg Config) (*SummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SummaryCache{client: client, ttl: cfg.TTL}, nil
}

func summaryKey(userID string) string {
	return "summary:" + userID
}

// Get retrieves a cached summary. Returns (nil, false) on any miss or
// decode failure.
func (c *SummaryCache) Get(ctx context.Context, userID string) (*aggregation.Summary, bool) {
	data, err := c.client.Get(ctx, summaryKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var summary aggregation.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores a summary under the user's key with the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, userID string, summary *aggregation.Summary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("SummaryCache: marshal error for user %s: %v", userID, err)
		return
	}
	if err := c.client.Set(ctx, summaryKey(userID), data, c.ttl).Err(); err != nil {
		log.Printf("SummaryCache: write error for user %s: %v", userID, err)
	}
}

// Invalidate drops the user's cached summary.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, summaryKey(userID)).Err(); err != nil {
		log.Printf("SummaryCache: delete error for user %s: %v", userID, err)
	}
}

// Close releases the Redis client
func (c *SummaryCache) Close() error {
	return c.client.Close()
}
