package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "leadbill:report:"

// RedisReportCache implements ReportCache using Redis.
// Entries are JSON encoded report views that expire after ttl.
type RedisReportCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReportCacheWithClient(client, "", ttl), nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client
func NewRedisReportCacheWithClient(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached view of report id
func (c *RedisReportCache) Get(ctx context.Context, id uuid.UUID) (*billingapp.BillingReportResponse, bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report billingapp.BillingReportResponse
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, true, nil
}

// Set stores report under its id
func (c *RedisReportCache) Set(ctx context.Context, report *billingapp.BillingReportResponse) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, c.key(report.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Delete evicts report id
func (c *RedisReportCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict cached report: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

var _ billingapp.ReportCache = (*RedisReportCache)(nil)
