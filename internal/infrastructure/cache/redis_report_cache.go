package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gestao_oficina/internal/domain/reporting"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and checks it answers PING.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	logger.For("cache", "redis").WithField("addr", opts.Addr).Info("redis connected")
	return rdb, nil
}

type stringStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisReportCache keeps generated reports as JSON strings.
type RedisReportCache struct {
	rdb    stringStore
	prefix string
}

var _ interfaces.IReportCache = (*RedisReportCache)(nil)

func NewRedisReportCache(rdb redis.Cmdable, prefix string) *RedisReportCache {
	return &RedisReportCache{rdb: rdb, prefix: prefix}
}

func (c *RedisReportCache) Get(ctx context.Context, key string) (reporting.Report, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return reporting.Report{}, false, nil
	}
	if err != nil {
		return reporting.Report{}, false, err
	}

	var r reporting.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return reporting.Report{}, false, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return r, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, r reporting.Report, ttl time.Duration) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, b, ttl).Err()
}
