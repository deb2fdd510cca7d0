package prices

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// Fixture is a static price source for development and tests. Prices are
// 8-decimal fixed point USD.
type Fixture struct {
	mu     sync.RWMutex
	prices map[string]*big.Int
}

// NewFixture creates a fixture source seeded with plausible testnet prices.
func NewFixture() *Fixture {
	return &Fixture{
		prices: map[string]*big.Int{
			"USDC": big.NewInt(100_000_000),        // 1.00
			"USDT": big.NewInt(100_000_000),        // 1.00
			"XLM":  big.NewInt(12_000_000),         // 0.12
			"BTC":  big.NewInt(6_500_000_000_000),  // 65000.00
			"ETH":  big.NewInt(350_000_000_000),    // 3500.00
			"AQUA": big.NewInt(150_000),            // 0.0015
			"VELO": big.NewInt(2_000_000),          // 0.02
			"SHX":  big.NewInt(700_000),            // 0.007
			"WXT":  big.NewInt(500_000),            // 0.005
			"RIO":  big.NewInt(60_000_000),         // 0.60
			"BLND": big.NewInt(8_000_000),          // 0.08
		},
	}
}

// PriceUSD implements Source
func (f *Fixture) PriceUSD(ctx context.Context, symbol string) (*big.Int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	price, ok := f.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no fixture price for %s", symbol)
	}
	return new(big.Int).Set(price), nil
}

// SetPrice overrides a fixture price; used by tests.
func (f *Fixture) SetPrice(symbol string, price *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = new(big.Int).Set(price)
}
