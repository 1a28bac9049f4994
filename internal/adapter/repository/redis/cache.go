package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobooks/internal/usecase"
)

// ReportCache implements usecase.ReportCache using Redis.
//
// Keys embed a generation number. Invalidate bumps the generation, which
// orphans every report cached under the previous one; orphans expire by TTL.
type ReportCache struct {
	client *redis.Client
	prefix string
}

// NewReportCache creates a new ReportCache.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: "reports:",
	}
}

func (c *ReportCache) generationKey() string {
	return c.prefix + "generation"
}

func (c *ReportCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *ReportCache) key(gen int64, name string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + name
}

// Get returns the cached report or usecase.ErrCacheMiss.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, c.key(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Set stores a report under the current generation.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(gen, key), value, ttl).Err()
}

// Invalidate drops every cached report.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}
