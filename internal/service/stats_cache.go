package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/observability"
)

const statsCachePrefix = "submissions:stats:"

// StatsInvalidator drops cached submission statistics. Anything that inserts, updates or
// deletes submission rows, directly or through a cascade, calls it after committing.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// StatsCache stores submission overviews in Redis. A nil cache or a cache without a client
// is a no-op, so callers never branch on whether Redis is configured.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStatsCache constructs the Redis-backed statistics cache.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "stats_cache").Logger(),
	}
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *StatsCache) get(ctx context.Context, key string) (dto.SubmissionStatsResponse, bool) {
	if !c.enabled() {
		return dto.SubmissionStatsResponse{}, false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("failed to read submission stats cache")
		}
		observability.StatsCacheLookups().WithLabelValues("miss").Inc()
		return dto.SubmissionStatsResponse{}, false
	}

	var response dto.SubmissionStatsResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		observability.StatsCacheLookups().WithLabelValues("miss").Inc()
		return dto.SubmissionStatsResponse{}, false
	}
	observability.StatsCacheLookups().WithLabelValues("hit").Inc()
	return response, true
}

func (c *StatsCache) set(ctx context.Context, key string, response dto.SubmissionStatsResponse) {
	if !c.enabled() || c.ttl <= 0 {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to write submission stats cache")
	}
}

// InvalidateStats deletes every cached overview.
func (c *StatsCache) InvalidateStats(ctx context.Context) {
	if !c.enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, statsCachePrefix+"*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to scan submission stats cache")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate submission stats cache")
	}
}

func invalidateStats(ctx context.Context, stats StatsInvalidator) {
	if stats != nil {
		stats.InvalidateStats(ctx)
	}
}
