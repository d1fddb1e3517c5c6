package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
)

// CachedRateProvider is a Redis read-through cache in front of another provider.
// Only found rates are cached. Redis failures fall through to the inner provider.
type CachedRateProvider struct {
	inner         adapter.ExchangeRateProvider
	client        *redis.Client
	latestTTL     time.Duration
	historicalTTL time.Duration
	metrics       adapter.BalanceMetrics
}

// NewCachedRateProvider creates a new cached provider. metrics may be nil.
func NewCachedRateProvider(
	inner adapter.ExchangeRateProvider,
	client *redis.Client,
	latestTTL, historicalTTL time.Duration,
	metrics adapter.BalanceMetrics,
) *CachedRateProvider {
	return &CachedRateProvider{
		inner:         inner,
		client:        client,
		latestTTL:     latestTTL,
		historicalTTL: historicalTTL,
		metrics:       metrics,
	}
}

type cachedRate struct {
	Rate   decimal.Decimal `json:"rate"`
	AsOf   string          `json:"asOf"`
	Source string          `json:"source"`
}

// RateCacheKey returns the Redis key for a pair and day, or "latest" when on is nil.
func RateCacheKey(from, to string, on *time.Time) string {
	day := "latest"
	if on != nil {
		day = on.UTC().Format(time.DateOnly)
	}
	return fmt.Sprintf("fx:%s:%s:%s", from, to, day)
}

// GetRate implements adapter.ExchangeRateProvider.
func (c *CachedRateProvider) GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error) {
	key := RateCacheKey(from, to, on)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if rate, decodeErr := decodeCachedRate(from, to, raw); decodeErr == nil {
			c.observe("hit")
			return rate, nil
		}
		slog.WarnContext(ctx, "Discarding malformed cached rate", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		slog.WarnContext(ctx, "Rate cache read failed", "key", key, "error", err)
	}
	c.observe("miss")

	rate, err := c.inner.GetRate(ctx, from, to, on)
	if err != nil || rate == nil {
		return rate, err
	}

	ttl := c.historicalTTL
	if on == nil {
		ttl = c.latestTTL
	}
	payload, err := json.Marshal(cachedRate{
		Rate:   rate.Rate,
		AsOf:   rate.AsOf.Format(time.DateOnly),
		Source: rate.Source,
	})
	if err == nil {
		if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
			slog.WarnContext(ctx, "Rate cache write failed", "key", key, "error", err)
		}
	}
	return rate, nil
}

func decodeCachedRate(from, to string, raw []byte) (*entity.ExchangeRate, error) {
	var cached cachedRate
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}
	asOf, err := time.Parse(time.DateOnly, cached.AsOf)
	if err != nil {
		return nil, err
	}
	if !cached.Rate.IsPositive() {
		return nil, fmt.Errorf("non-positive cached rate %s", cached.Rate.String())
	}
	return entity.NewExchangeRate(from, to, cached.Rate, asOf, entity.RateProviderCache), nil
}

func (c *CachedRateProvider) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveRateLookup(entity.RateProviderCache, outcome)
	}
}
