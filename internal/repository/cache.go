package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursehub-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix        = "coursehub:course_stats:"
	statsVersionKeyPrefix = "coursehub:course_stats_version:"
)

// setIfVersion stores KEYS[1] only while KEYS[2] still holds the version the
// caller read. A missing version key counts as 0.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// ParseRedisURL validates a redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// ========== STATS CACHE ==========

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) domain.StatsCache {
	return &statsCache{client: client, ttl: ttl}
}

func statsKey(courseID uint) string {
	return fmt.Sprintf("%s%d", statsKeyPrefix, courseID)
}

func statsVersionKey(courseID uint) string {
	return fmt.Sprintf("%s%d", statsVersionKeyPrefix, courseID)
}

func (c *statsCache) Get(ctx context.Context, courseID uint) (*domain.CourseStats, error) {
	raw, err := c.client.Get(ctx, statsKey(courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats domain.CourseStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decoding cached stats: %w", err)
	}
	return &stats, nil
}

func (c *statsCache) Version(ctx context.Context, courseID uint) (int64, error) {
	v, err := c.client.Get(ctx, statsVersionKey(courseID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set drops the snapshot when an Invalidate happened after version was read.
func (c *statsCache) Set(ctx context.Context, stats *domain.CourseStats, version int64) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	keys := []string{statsKey(stats.CourseID), statsVersionKey(stats.CourseID)}
	return setIfVersion.Run(ctx, c.client, keys, raw, version, c.ttl.Milliseconds()).Err()
}

func (c *statsCache) Invalidate(ctx context.Context, courseID uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, statsVersionKey(courseID))
		pipe.Del(ctx, statsKey(courseID))
		return nil
	})
	return err
}
