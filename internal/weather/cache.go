package weather

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedClient keeps successful reports in Redis for ttl. Redis failures
// fall through to the wrapped fetcher; errors are never cached.
type CachedClient struct {
	base   Fetcher
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedClient(base Fetcher, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClient {
	if base == nil {
		panic("weather.NewCachedClient: base fetcher is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CachedClient{base: base, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedClient) Current(ctx context.Context, city string) (Report, error) {
	if report, ok := c.load(ctx, city); ok {
		return report, nil
	}

	report, err := c.base.Current(ctx, city)
	if err != nil {
		return Report{}, err
	}

	c.store(ctx, city, report)
	return report, nil
}

func (c *CachedClient) load(ctx context.Context, city string) (Report, bool) {
	if c.redis == nil {
		return Report{}, false
	}
	data, err := c.redis.Get(ctx, cacheKey(city)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("weather cache read failed", zap.String("city", city), zap.Error(err))
		}
		return Report{}, false
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		_ = c.redis.Del(ctx, cacheKey(city)).Err()
		return Report{}, false
	}
	return report, true
}

func (c *CachedClient) store(ctx context.Context, city string, report Report) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(city), data, c.ttl).Err(); err != nil {
		c.logger.Warn("weather cache write failed", zap.String("city", city), zap.Error(err))
	}
}

func cacheKey(city string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(city))
}
