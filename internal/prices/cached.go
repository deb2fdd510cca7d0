package prices

import (
	"context"
	"math/big"

	"github.com/stellarhub/defihub/pkg/logger"
)

// Cache is the slice of the Redis price cache the decorator needs.
type Cache interface {
	Get(ctx context.Context, symbol string) (*big.Int, bool, error)
	Set(ctx context.Context, symbol string, price *big.Int) error
	GetStale(ctx context.Context, symbol string) (*big.Int, bool, error)
	SetStale(ctx context.Context, symbol string, price *big.Int) error
}

// CachedSource decorates a Source with a Redis cache plus a stale fallback:
// when the upstream feed is down, a stale price beats no price for display
// purposes. Borrow guards always consult the decorated source through the
// same path, so guard and display never disagree.
type CachedSource struct {
	source Source
	cache  Cache
	logger *logger.Logger
}

// NewCachedSource wraps source with cache
func NewCachedSource(source Source, cache Cache, log *logger.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		logger: log.WithField("component", "prices"),
	}
}

// PriceUSD implements Source
func (c *CachedSource) PriceUSD(ctx context.Context, symbol string) (*big.Int, error) {
	if price, ok, err := c.cache.Get(ctx, symbol); err == nil && ok {
		return price, nil
	}

	price, err := c.source.PriceUSD(ctx, symbol)
	if err != nil {
		stale, ok, staleErr := c.cache.GetStale(ctx, symbol)
		if staleErr == nil && ok {
			c.logger.Warn("price feed down, serving stale price", "symbol", symbol, "error", err)
			return stale, nil
		}
		return nil, err
	}

	if cacheErr := c.cache.Set(ctx, symbol, price); cacheErr != nil {
		c.logger.Warn("failed to cache price", "symbol", symbol, "error", cacheErr)
	}
	if cacheErr := c.cache.SetStale(ctx, symbol, price); cacheErr != nil {
		c.logger.Warn("failed to cache stale price", "symbol", symbol, "error", cacheErr)
	}
	return price, nil
}
