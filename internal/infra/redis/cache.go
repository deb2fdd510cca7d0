// Package redis implements the price cache on go-redis. Prices are stored as
// decimal strings since they are big.Int fixed-point values.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stellarhub/defihub/pkg/logger"
)

const (
	// DefaultTTL is how long a fresh price is served from cache.
	DefaultTTL = 60 * time.Second

	// StaleTTL is the retention of the stale fallback copy used when the
	// oracle is unreachable.
	StaleTTL = 24 * time.Hour

	// KeyPrefix is the prefix for price cache keys
	KeyPrefix = "price:"
)

// Cache is a Redis-backed price cache with a separate stale fallback slot
// per symbol.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewCache creates a price cache with the default TTL
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return NewCacheWithTTL(client, DefaultTTL, log)
}

// NewCacheWithTTL creates a price cache with a custom TTL
func NewCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "cache"),
	}
}

// cachedPrice is the stored representation of one price.
type cachedPrice struct {
	Symbol    string    `json:"symbol"`
	USDPrice  string    `json:"usd_price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get retrieves a fresh cached price for a symbol.
func (c *Cache) Get(ctx context.Context, symbol string) (*big.Int, bool, error) {
	return c.get(ctx, freshKey(symbol))
}

// Set stores a fresh price.
func (c *Cache) Set(ctx context.Context, symbol string, price *big.Int) error {
	return c.set(ctx, freshKey(symbol), symbol, price, c.ttl)
}

// GetStale retrieves the fallback copy served when the oracle is down.
func (c *Cache) GetStale(ctx context.Context, symbol string) (*big.Int, bool, error) {
	return c.get(ctx, staleKey(symbol))
}

// SetStale stores the fallback copy.
func (c *Cache) SetStale(ctx context.Context, symbol string, price *big.Int) error {
	return c.set(ctx, staleKey(symbol), symbol, price, StaleTTL)
}

// Delete removes both copies of a symbol's price.
func (c *Cache) Delete(ctx context.Context, symbol string) error {
	return c.client.Del(ctx, freshKey(symbol), staleKey(symbol)).Err()
}

func (c *Cache) get(ctx context.Context, key string) (*big.Int, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get cached price: %w", err)
	}

	var cached cachedPrice
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached price: %w", err)
	}
	price, ok := new(big.Int).SetString(cached.USDPrice, 10)
	if !ok {
		return nil, false, fmt.Errorf("failed to parse cached price: invalid number")
	}
	return price, true, nil
}

func (c *Cache) set(ctx context.Context, key, symbol string, price *big.Int, ttl time.Duration) error {
	cached := cachedPrice{
		Symbol:    symbol,
		USDPrice:  price.String(),
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal price: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "key", key, "error", err)
		return fmt.Errorf("failed to set cached price: %w", err)
	}
	return nil
}

func freshKey(symbol string) string { return fmt.Sprintf("%s%s:usd", KeyPrefix, symbol) }
func staleKey(symbol string) string { return fmt.Sprintf("%s%s:usd:stale", KeyPrefix, symbol) }
