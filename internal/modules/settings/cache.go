package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/pricing"
)

// Cache holds the resolved totals configuration between reads.
type Cache interface {
	GetTotals(ctx context.Context) (pricing.TotalsConfig, bool, error)
	SetTotals(ctx context.Context, cfg pricing.TotalsConfig) error
	Invalidate(ctx context.Context) error
}

const totalsCacheKey = "freshveg:settings:totals"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) GetTotals(ctx context.Context) (pricing.TotalsConfig, bool, error) {
	b, err := c.rdb.Get(ctx, totalsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.TotalsConfig{}, false, nil
	}
	if err != nil {
		return pricing.TotalsConfig{}, false, err
	}
	var cfg pricing.TotalsConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return pricing.TotalsConfig{}, false, err
	}
	return cfg, true, nil
}

func (c *RedisCache) SetTotals(ctx context.Context, cfg pricing.TotalsConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, totalsCacheKey, b, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, totalsCacheKey).Err()
}
